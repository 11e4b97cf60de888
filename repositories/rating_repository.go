package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var ErrPlayerRatingNotFound = errors.New("player rating not found")

type RatingRepository interface {
	GetByPlayer(ctx context.Context, exec SQLExecutor, playerID string) (*models.PlayerRating, error)
	// GetOrCreate lazily initializes a player at the default rating on their
	// first rated match.
	GetOrCreate(ctx context.Context, exec SQLExecutor, playerID string) (*models.PlayerRating, error)
	Update(ctx context.Context, exec SQLExecutor, rating *models.PlayerRating) error
	ListByPlayerIDs(ctx context.Context, exec SQLExecutor, playerIDs []string) ([]*models.PlayerRating, error)
}

type postgresRatingRepository struct {
	db *sql.DB
}

func NewPostgresRatingRepository(db *sql.DB) RatingRepository {
	return &postgresRatingRepository{db: db}
}

func (r *postgresRatingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRatingRepository) GetByPlayer(ctx context.Context, exec SQLExecutor, playerID string) (*models.PlayerRating, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT player_id, rating, games_played, updated_at
		FROM player_ratings
		WHERE player_id = $1`

	rating := &models.PlayerRating{}
	err := executor.QueryRowContext(ctx, query, playerID).Scan(
		&rating.PlayerID, &rating.Rating, &rating.GamesPlayed, &rating.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerRatingNotFound
		}
		return nil, err
	}
	return rating, nil
}

func (r *postgresRatingRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, playerID string) (*models.PlayerRating, error) {
	executor := r.getExecutor(exec)

	rating, err := r.GetByPlayer(ctx, executor, playerID)
	if err == nil {
		return rating, nil
	}
	if !errors.Is(err, ErrPlayerRatingNotFound) {
		return nil, fmt.Errorf("failed to get rating for player %s: %w", playerID, err)
	}

	created := &models.PlayerRating{
		PlayerID:    playerID,
		Rating:      models.DefaultRating,
		GamesPlayed: 0,
		UpdatedAt:   time.Now(),
	}
	query := `
		INSERT INTO player_ratings (player_id, rating, games_played, updated_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := executor.ExecContext(ctx, query,
		created.PlayerID, created.Rating, created.GamesPlayed, created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create rating for player %s: %w", playerID, err)
	}
	return created, nil
}

func (r *postgresRatingRepository) Update(ctx context.Context, exec SQLExecutor, rating *models.PlayerRating) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE player_ratings
		SET rating = $1, games_played = $2, updated_at = $3
		WHERE player_id = $4`

	rating.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query,
		rating.Rating, rating.GamesPlayed, rating.UpdatedAt, rating.PlayerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerRatingNotFound)
}

func (r *postgresRatingRepository) ListByPlayerIDs(ctx context.Context, exec SQLExecutor, playerIDs []string) ([]*models.PlayerRating, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT player_id, rating, games_played, updated_at
		FROM player_ratings
		WHERE player_id = ANY($1)
		ORDER BY player_id ASC`

	rows, err := executor.QueryContext(ctx, query, pq.Array(playerIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]*models.PlayerRating, 0, len(playerIDs))
	for rows.Next() {
		rating := &models.PlayerRating{}
		if scanErr := rows.Scan(&rating.PlayerID, &rating.Rating, &rating.GamesPlayed, &rating.UpdatedAt); scanErr != nil {
			return nil, scanErr
		}
		ratings = append(ratings, rating)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}
