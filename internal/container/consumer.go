package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/user-lookup-go/internal/audit"
	auditstore "github.com/serroba/user-lookup-go/internal/audit/store"
	"github.com/serroba/user-lookup-go/internal/messaging"
	"go.uber.org/zap"
)

// AuditStorePackage provides the audit store selected by the options.
func AuditStorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (audit.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.AuditStore != "postgres" {
			return auditstore.NewNoop(logger), nil
		}

		pg := auditstore.NewPostgres(do.MustInvoke[*Postgres](i).Pool)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := pg.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate audit store: %w", err)
		}

		return pg, nil
	})
}

// ConsumerGroupPackage provides the consumers of the audit stream.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*Redis](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client.Client,
				Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
				ConsumerGroup: auditConsumerGroup,
			},
			messaging.NewZapLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("redis stream subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			audit.TopicUserRemoval,
			audit.NewRemovalHandler(do.MustInvoke[audit.Store](i), logger),
			logger,
		))

		return group, nil
	})
}
