package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitsmart/internal/models"
)

// CreateGroup inserts a group and its owner's membership in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO groups (name, description, owner_id, created_at) VALUES (?, ?, ?, ?)",
			group.Name, group.Description, group.OwnerID, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read group id: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id) VALUES (?, ?)",
			id, group.OwnerID,
		); err != nil {
			return fmt.Errorf("failed to insert owner membership: %w", err)
		}

		members, err := listMembers(ctx, tx, id)
		if err != nil {
			return err
		}

		group.ID = id
		group.Members = members
		return nil
	})
}

// GetGroup retrieves a group by ID, including all members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	return getGroup(ctx, s.db, groupID)
}

// ListGroupsForUser retrieves all groups the user is a member of, oldest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID int64) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = ?
		 ORDER BY g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := getGroup(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// AddGroupMember adds a user to a group. Membership is a set, so adding an
// existing member changes nothing and reports added=false.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO group_members (group_id, user_id) VALUES (?, ?)",
		groupID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add group member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return n > 0, nil
}

func getGroup(ctx context.Context, q DBTX, groupID int64) (*models.Group, error) {
	group := &models.Group{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, description, owner_id, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.OwnerID, &group.CreatedAt)
	if isNoRows(err) {
		return nil, notFound("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := listMembers(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

func listMembers(ctx context.Context, q DBTX, groupID int64) ([]models.User, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT u.id, u.email, u.full_name, u.created_at
		 FROM users u
		 JOIN group_members gm ON gm.user_id = u.id
		 WHERE gm.group_id = ?
		 ORDER BY u.id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
