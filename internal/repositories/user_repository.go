package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"hivedesk/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, name, email, birthday, password_hash, otp, otp_expiry,
	is_verified, last_login, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (
			id, name, email, birthday, password_hash, otp, otp_expiry,
			is_verified, last_login, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.db.ExecContext(ctx, q,
		user.ID,
		user.Name,
		user.Email,
		user.Birthday,
		user.PasswordHash,
		user.OTP,
		user.OTPExpiry,
		user.IsVerified,
		user.LastLogin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return wrapErr("user create", err)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, wrapErr("user get by id", err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return nil, wrapErr("user get by email", err)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	const q = `
		UPDATE users
		SET
			name=$1,
			email=$2,
			birthday=$3,
			password_hash=$4,
			otp=$5,
			otp_expiry=$6,
			is_verified=$7,
			last_login=$8,
			updated_at=$9
		WHERE id=$10`
	res, err := r.db.ExecContext(ctx, q,
		user.Name,
		user.Email,
		user.Birthday,
		user.PasswordHash,
		user.OTP,
		user.OTPExpiry,
		user.IsVerified,
		user.LastLogin,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return wrapErr("user update", err)
	}
	return expectRow(res)
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		birthday     sql.NullTime
		passwordHash sql.NullString
		otp          sql.NullString
		otpExpiry    sql.NullTime
		lastLogin    sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &birthday, &passwordHash, &otp, &otpExpiry,
		&u.IsVerified, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if birthday.Valid {
		t := birthday.Time
		u.Birthday = &t
	}
	if passwordHash.Valid {
		s := passwordHash.String
		u.PasswordHash = &s
	}
	if otp.Valid {
		s := otp.String
		u.OTP = &s
	}
	if otpExpiry.Valid {
		t := otpExpiry.Time
		u.OTPExpiry = &t
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}
