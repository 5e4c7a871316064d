package postgres

import (
	"context"
	"fmt"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/pkg/database"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
)

// FavoriteRepository implements repository.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	pool database.DBTX
}

// NewFavoriteRepository creates a PostgreSQL-backed favorites repository.
func NewFavoriteRepository(pool database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

// Add saves a product to the user's favorites. Re-adding is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, userID, productID string) error {
	query := `
		INSERT INTO favorites (user_id, product_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, product_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}

	return nil
}

// Remove deletes a product from the user's favorites.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// List returns all favorites for the user, newest first.
func (r *FavoriteRepository) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	query := `
		SELECT user_id, product_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]domain.Favorite, 0)
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.UserID, &f.ProductID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite row: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite rows: %w", err)
	}

	return favorites, nil
}
