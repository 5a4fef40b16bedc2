// db/migrate.go
package db

import (
	"fmt"

	"github.com/SpicyTech2823/Car-rental/logger"

	"github.com/jmoiron/sqlx"
)

const createUsersTableSQL = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT,
    name TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'user',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

const createAdminsTableSQL = `
CREATE TABLE IF NOT EXISTS admins (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    refresh_token_hash TEXT NOT NULL UNIQUE,
    expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

const createOTPTableSQL = `
CREATE TABLE IF NOT EXISTS otp_codes (
    user_email TEXT PRIMARY KEY,
    code TEXT NOT NULL,
    expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
    attempts INTEGER NOT NULL DEFAULT 0
);`

const createPasswordResetsTableSQL = `
CREATE TABLE IF NOT EXISTS password_resets (
    token_hash TEXT PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at TIMESTAMP WITH TIME ZONE NOT NULL
);`

const createCarsTableSQL = `
CREATE TABLE IF NOT EXISTS cars (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT[] NOT NULL DEFAULT '{}',
    price NUMERIC(10,2) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    features TEXT[] NOT NULL DEFAULT '{}',
    image TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

const createBookingsTableSQL = `
CREATE TABLE IF NOT EXISTS bookings (
    id UUID PRIMARY KEY,
    reference TEXT NOT NULL,
    car_id BIGINT REFERENCES cars(id) ON DELETE SET NULL,
    user_id UUID REFERENCES users(id) ON DELETE SET NULL,
    customer_name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT NOT NULL,
    pickup_date DATE NOT NULL,
    return_date DATE NOT NULL,
    days INTEGER NOT NULL CHECK (days >= 1),
    total_price NUMERIC(12,2) NOT NULL,
    payment_method TEXT NOT NULL,
    is_paid BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

const createFeedbackTableSQL = `
CREATE TABLE IF NOT EXISTS feedback (
    id UUID PRIMARY KEY,
    user_id UUID REFERENCES users(id) ON DELETE SET NULL,
    user_name TEXT NOT NULL,
    user_email TEXT,
    rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    comment TEXT NOT NULL,
    car_id BIGINT REFERENCES cars(id) ON DELETE SET NULL,
    is_featured BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

var migrations = []struct {
	name string
	sql  string
}{
	{"users", createUsersTableSQL},
	{"admins", createAdminsTableSQL},
	{"sessions", createSessionsTableSQL},
	{"otp_codes", createOTPTableSQL},
	{"password_resets", createPasswordResetsTableSQL},
	{"cars", createCarsTableSQL},
	{"bookings", createBookingsTableSQL},
	{"feedback", createFeedbackTableSQL},
}

// RunMigrations creates every table the service needs.
func RunMigrations(conn *sqlx.DB) error {
	if conn == nil {
		return fmt.Errorf("database connection is nil, call InitDB first")
	}

	for _, m := range migrations {
		if _, err := conn.Exec(m.sql); err != nil {
			return fmt.Errorf("error running %s table migration: %w", m.name, err)
		}
		logger.Log.Info(fmt.Sprintf("[db] Migration for table %s applied.", m.name))
	}

	logger.Log.Info("[db] Migrations completed successfully.")
	return nil
}
