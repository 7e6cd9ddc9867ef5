package postgresql

import (
	"context"
	"encoding/json"

	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/lumenhr/backoffice-go/internal/pkg/database"
)

// leaveActionRepositoryImpl is append-only: the audit table has no
// update or delete path, in SQL or in code.
type leaveActionRepositoryImpl struct {
	db *database.DB
}

func NewLeaveActionRepository(db *database.DB) leave.LeaveActionRepository {
	return &leaveActionRepositoryImpl{db: db}
}

// Append implements leave.LeaveActionRepository.
func (r *leaveActionRepositoryImpl) Append(ctx context.Context, action leave.LeaveRequestAction) (leave.LeaveRequestAction, error) {
	q := GetQuerier(ctx, r.db)

	var metadataJSON []byte
	if action.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(action.Metadata)
		if err != nil {
			return leave.LeaveRequestAction{}, err
		}
	}

	query := `
		INSERT INTO leave_request_actions (
			id, request_id, actor_id, action, comment, metadata, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		action.RequestID, action.ActorID, action.Action, action.Comment, metadataJSON,
	).Scan(&action.ID, &action.CreatedAt)
	if err != nil {
		return leave.LeaveRequestAction{}, err
	}

	return action, nil
}

// ListByRequest implements leave.LeaveActionRepository. Oldest first.
func (r *leaveActionRepositoryImpl) ListByRequest(ctx context.Context, requestID string) ([]leave.LeaveRequestAction, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, request_id, actor_id, action, comment, metadata, created_at
		FROM leave_request_actions
		WHERE request_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := make([]leave.LeaveRequestAction, 0)
	for rows.Next() {
		var action leave.LeaveRequestAction
		var metadataJSON []byte
		if err := rows.Scan(
			&action.ID, &action.RequestID, &action.ActorID,
			&action.Action, &action.Comment, &metadataJSON, &action.CreatedAt,
		); err != nil {
			return nil, err
		}
		if metadataJSON != nil {
			var metadata leave.ActionMetadata
			if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
				return nil, err
			}
			action.Metadata = &metadata
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return actions, nil
}
