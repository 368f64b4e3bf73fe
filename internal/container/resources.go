package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Redis owns the shared Redis client.
type Redis struct {
	*redis.Client
}

func (r *Redis) Shutdown() error {
	return r.Close()
}

// Postgres owns the shared connection pool.
type Postgres struct {
	*pgxpool.Pool
}

func (p *Postgres) Shutdown() error {
	p.Close()

	return nil
}

// Mongo owns a MongoDB client. A shared client is disconnected by its owner.
type Mongo struct {
	*mongo.Client
	shared bool
}

func (m *Mongo) Shutdown() error {
	if m.shared {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	return m.Disconnect(ctx)
}

// RedisPackage provides the Redis client used for quota counters and streams.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)

		redisOpts, err := redisOptions(opts)
		if err != nil {
			return nil, err
		}

		return &Redis{Client: redis.NewClient(redisOpts)}, nil
	})
}

func redisOptions(opts *Options) (*redis.Options, error) {
	if opts.RedisURL == "" {
		return &redis.Options{Addr: opts.RedisAddr}, nil
	}

	parsed, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	return parsed, nil
}

// PostgresPackage provides the PostgreSQL pool.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}

		return &Postgres{Pool: pool}, nil
	})
}

// WhitelistMongo is the name of the MongoDB client holding the removal
// whitelist. It is the main client unless a separate URI is configured.
const WhitelistMongo = "mongo.whitelist"

// MongoPackage provides the MongoDB clients.
func MongoPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Mongo, error) {
		return connectMongo(do.MustInvoke[*Options](i).MongoURI)
	})

	do.ProvideNamed(i, WhitelistMongo, func(i *do.Injector) (*Mongo, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.WhitelistURI() == opts.MongoURI {
			return &Mongo{Client: do.MustInvoke[*Mongo](i).Client, shared: true}, nil
		}

		return connectMongo(opts.WhitelistURI())
	})
}

func connectMongo(uri string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: %w", err)
	}

	return &Mongo{Client: client}, nil
}
