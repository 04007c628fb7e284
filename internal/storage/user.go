package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/ecommerce-api/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// UpdateLastSignIn обновляет отметку последнего входа (используется для отчетов активности).
	UpdateLastSignIn(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserStorage {
	return &userRepository{db: db}
}

const userColumns = "id, email, username, pass_hash, address, city, country, phone, image_url, role, created_at, last_sign_in, updated_at"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.UserName, &user.PassHash,
		&user.Address, &user.City, &user.Country, &user.Phone,
		&user.ImageURL, &user.Role, &user.CreatedAt, &user.LastSignIn, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, username, pass_hash, role, created_at, last_sign_in, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW(), NOW()) RETURNING id`,
		user.Email, user.UserName, user.PassHash, user.Role,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) UpdateLastSignIn(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET last_sign_in = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
