package container

import (
	"time"

	"github.com/samber/do"
	"github.com/serroba/user-lookup-go/internal/records"
	"github.com/serroba/user-lookup-go/internal/store"
)

// Names of the record repositories.
const (
	UsersRepository     = "records.users"
	WhitelistRepository = "records.whitelist"
)

const breakerMaxFailures = 5

// mongoUsers selects the unnamed main MongoDB client.
const mongoUsers = ""

func mongoClient(i *do.Injector, name string) (*Mongo, error) {
	if name == mongoUsers {
		return do.Invoke[*Mongo](i)
	}

	return do.InvokeNamed[*Mongo](i, name)
}

// RecordsPackage provides the users and whitelist repositories for the
// configured backend, each behind its own circuit breaker.
func RecordsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*store.RecordMemoryStore, error) {
		return store.NewRecordMemoryStore(), nil
	})

	do.ProvideNamed(i, UsersRepository, func(i *do.Injector) (*store.BreakerRecordStore, error) {
		opts := do.MustInvoke[*Options](i)

		repo, err := recordStore(i, opts, mongoUsers, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}

		return withBreaker(repo, "users", opts), nil
	})

	do.ProvideNamed(i, WhitelistRepository, func(i *do.Injector) (*store.BreakerRecordStore, error) {
		opts := do.MustInvoke[*Options](i)

		repo, err := recordStore(i, opts, WhitelistMongo, opts.WhitelistDatabase)
		if err != nil {
			return nil, err
		}

		return withBreaker(repo, "whitelist", opts), nil
	})
}

func recordStore(i *do.Injector, opts *Options, client, database string) (records.Repository, error) {
	switch opts.RecordBackend {
	case BackendPostgres:
		pg, err := do.Invoke[*Postgres](i)
		if err != nil {
			return nil, err
		}

		return store.NewPostgresRecordStore(pg.Pool), nil
	case BackendMemory:
		mem, err := do.Invoke[*store.RecordMemoryStore](i)
		if err != nil {
			return nil, err
		}

		return mem, nil
	default:
		conn, err := mongoClient(i, client)
		if err != nil {
			return nil, err
		}

		return store.NewMongoRecordStore(conn.Database(database)), nil
	}
}

func withBreaker(repo records.Repository, name string, opts *Options) *store.BreakerRecordStore {
	timeout, _ := time.ParseDuration(opts.BreakerTimeout)

	return store.NewBreakerRecordStore(repo, name, timeout, breakerMaxFailures)
}
