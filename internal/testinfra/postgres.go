// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage is the image used unless WithPostgresImage is given.
	DefaultPostgresImage = "postgres:16-alpine"

	postgresPort     = "5432/tcp"
	postgresUser     = "salesboard"
	postgresPassword = "salesboard"
	postgresDB       = "sales"
)

// PostgresContainer is a running PostgreSQL server with the sales schema.
type PostgresContainer struct {
	testcontainers.Container
	DSN string
}

// PostgresOption configures the PostgreSQL container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	startTimeout time.Duration
}

// WithPostgresImage sets a custom PostgreSQL image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithPostgresStartTimeout sets how long to wait for the server to accept
// connections.
func WithPostgresStartTimeout(timeout time.Duration) PostgresOption {
	return func(c *postgresConfig) {
		c.startTimeout = timeout
	}
}

// NewPostgresContainer starts PostgreSQL and applies SalesSchema.
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{
		image:        DefaultPostgresImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
			"TZ":                "UTC",
		},
		// The entrypoint restarts the server once after initdb.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	dsn := (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(postgresUser, postgresPassword),
		Host:     fmt.Sprintf("%s:%s", host, port.Port()),
		Path:     postgresDB,
		RawQuery: "sslmode=disable",
	}).String()

	pg := &PostgresContainer{Container: container, DSN: dsn}
	if err := pg.Exec(ctx, SalesSchema...); err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return pg, nil
}

// Exec runs each statement on a fresh connection, in order.
func (p *PostgresContainer) Exec(ctx context.Context, statements ...string) error {
	conn, err := pgx.Connect(ctx, p.DSN)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	for i, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}

// SalesSchema creates the tables the analytics reports read.
var SalesSchema = []string{
	`CREATE TABLE channels (id SERIAL PRIMARY KEY, name TEXT NOT NULL)`,
	`CREATE TABLE sub_brands (id SERIAL PRIMARY KEY, name TEXT NOT NULL)`,
	`CREATE TABLE stores (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		sub_brand_id INT REFERENCES sub_brands(id)
	)`,
	`CREATE TABLE customers (id SERIAL PRIMARY KEY, customer_name TEXT NOT NULL)`,
	`CREATE TABLE products (id SERIAL PRIMARY KEY, name TEXT NOT NULL)`,
	`CREATE TABLE sales (
		id SERIAL PRIMARY KEY,
		store_id INT NOT NULL REFERENCES stores(id),
		channel_id INT NOT NULL REFERENCES channels(id),
		customer_id INT REFERENCES customers(id),
		customer_name TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		sale_status_desc TEXT NOT NULL DEFAULT 'COMPLETED',
		total_amount NUMERIC(12,2) NOT NULL,
		production_seconds INT,
		delivery_seconds INT
	)`,
	`CREATE TABLE product_sales (
		id SERIAL PRIMARY KEY,
		sale_id INT NOT NULL REFERENCES sales(id),
		product_id INT NOT NULL REFERENCES products(id),
		quantity NUMERIC(10,2) NOT NULL,
		base_price NUMERIC(12,2) NOT NULL,
		total_price NUMERIC(12,2) NOT NULL
	)`,
	`CREATE MATERIALIZED VIEW avg_ticket_comparison_mv AS
	SELECT
		store_id,
		channel_id,
		COUNT(id) AS total_sales,
		SUM(total_amount) AS total_revenue,
		AVG(total_amount) AS avg_ticket,
		MAX(created_at) AS last_sale_at
	FROM sales
	WHERE sale_status_desc = 'COMPLETED'
	GROUP BY store_id, channel_id`,
}

// RefreshTicketView recomputes avg_ticket_comparison_mv after seeding.
const RefreshTicketView = `REFRESH MATERIALIZED VIEW avg_ticket_comparison_mv`
