package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

// PostgresRunsRepository 基于 PostgreSQL 的提取运行持久化
type PostgresRunsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRunsRepository(db *sql.DB, logger *zap.Logger) *PostgresRunsRepository {
	return &PostgresRunsRepository{db: db, logger: logger}
}

// SaveRun 在单个事务内写入运行概要、房间、窗与异常
func (r *PostgresRunsRepository) SaveRun(ctx context.Context, rec *RunRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO extraction_runs (run_id, project, created_at, room_count, window_count, anomaly_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.RunID, rec.Project, rec.CreatedAt, rec.RoomCount, rec.WindowCount, rec.AnomalyCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, room := range rec.Rooms {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO extracted_rooms (run_id, code, display_name, width, depth, height)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.RunID, room.Code, room.DisplayName, room.Width, room.Depth, room.Height,
		)
		if err != nil {
			return fmt.Errorf("failed to insert room %s: %w", room.Code, err)
		}

		for _, win := range room.Windows {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO extracted_windows
				 (run_id, room_code, tag, name, width, height, sill_height,
				  wall_orientation, wall_length, location_x, location_y, out_of_range)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				rec.RunID, room.Code, win.Tag, win.Name, win.Width, win.Height, win.SillHeight,
				string(win.WallOrientation), win.WallLength, win.LocationX, win.LocationY, win.OutOfRange,
			)
			if err != nil {
				return fmt.Errorf("failed to insert window %s: %w", win.Tag, err)
			}
		}
	}

	for _, a := range rec.Anomalies {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_anomalies (run_id, kind, subject, detail)
			 VALUES ($1, $2, $3, $4)`,
			rec.RunID, string(a.Kind), a.Subject, a.Detail,
		)
		if err != nil {
			return fmt.Errorf("failed to insert anomaly: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	r.logger.Debug("extraction run persisted",
		zap.String("run_id", rec.RunID),
		zap.Int("rooms", len(rec.Rooms)),
	)
	return nil
}

// GetRun 读取完整的运行记录（含房间树与异常）
func (r *PostgresRunsRepository) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	rec := &RunRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT run_id, project, created_at, room_count, window_count, anomaly_count
		 FROM extraction_runs WHERE run_id = $1`,
		runID,
	).Scan(&rec.RunID, &rec.Project, &rec.CreatedAt, &rec.RoomCount, &rec.WindowCount, &rec.AnomalyCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rooms := map[string]*domain.Room{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT code, display_name, width, depth, height
		 FROM extracted_rooms WHERE run_id = $1 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(&room.Code, &room.DisplayName, &room.Width, &room.Depth, &room.Height); err != nil {
			return nil, err
		}
		rooms[room.Code] = room
		rec.Rooms = append(rec.Rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	winRows, err := r.db.QueryContext(ctx,
		`SELECT room_code, tag, name, width, height, sill_height,
		        wall_orientation, wall_length, location_x, location_y, out_of_range
		 FROM extracted_windows WHERE run_id = $1 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	defer winRows.Close()
	for winRows.Next() {
		var roomCode, orientation string
		win := &domain.Window{}
		if err := winRows.Scan(&roomCode, &win.Tag, &win.Name, &win.Width, &win.Height, &win.SillHeight,
			&orientation, &win.WallLength, &win.LocationX, &win.LocationY, &win.OutOfRange); err != nil {
			return nil, err
		}
		win.WallOrientation = geometry.Orientation(orientation)
		if room, ok := rooms[roomCode]; ok {
			room.Windows = append(room.Windows, win)
		}
	}
	if err := winRows.Err(); err != nil {
		return nil, err
	}

	anomRows, err := r.db.QueryContext(ctx,
		`SELECT kind, subject, detail FROM run_anomalies WHERE run_id = $1 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomalies: %w", err)
	}
	defer anomRows.Close()
	for anomRows.Next() {
		var a domain.Anomaly
		var kind string
		if err := anomRows.Scan(&kind, &a.Subject, &a.Detail); err != nil {
			return nil, err
		}
		a.Kind = domain.AnomalyKind(kind)
		rec.Anomalies = append(rec.Anomalies, a)
	}
	return rec, anomRows.Err()
}

// ListRuns 按时间倒序列出运行概要
func (r *PostgresRunsRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, project, created_at, room_count, window_count, anomaly_count
		 FROM extraction_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	out := []RunSummary{}
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.Project, &s.CreatedAt,
			&s.RoomCount, &s.WindowCount, &s.AnomalyCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
