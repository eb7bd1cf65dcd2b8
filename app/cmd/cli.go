package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-foodie/app/configs"
	"github.com/Rakhulsr/go-foodie/app/db/seeders"
	"github.com/Rakhulsr/go-foodie/app/events"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/models/migrations"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"github.com/Rakhulsr/go-foodie/app/routes"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/urfave/cli/v3"
)

func RunCli(args []string) {
	env := configs.LoadEnv()

	cmd := &cli.Command{
		Name:  "foodie",
		Usage: "food ordering backend",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: env.Port, Usage: "listen address"},
					&cli.BoolFlag{Name: "migrate", Usage: "run migrations before serving"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env, c.String("addr"), c.Bool("migrate"))
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Seed demo categories, food items and a customer",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "items", Value: 5, Usage: "food items per category"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := seeders.DBSeed(ctx, db, int(c.Int("items"))); err != nil {
						return err
					}
					log.Println("Seeding complete")
					return nil
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "phone"},
					&cli.BoolFlag{Name: "admin", Usage: "grant the admin role"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					role := models.RoleCustomer
					if c.Bool("admin") {
						role = models.RoleAdmin
					}
					user := &models.User{
						Username: c.String("username"),
						Email:    c.String("email"),
						Phone:    c.String("phone"),
						Password: c.String("password"),
						Role:     role,
					}
					if err := repositories.NewUserRepository(db).Create(ctx, user); err != nil {
						return fmt.Errorf("create user: %w", err)
					}
					log.Printf("Created %s user %s (%s)", user.Role, user.Username, user.ID)
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "also write the keys to this file"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateSessionKeys(os.Stdout, c.String("out")); err != nil {
						return err
					}
					log.Println("Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func serve(ctx context.Context, env configs.ENV, addr string, migrate bool) error {
	db, err := configs.OpenConnection(env)
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	if migrate {
		if err := migrations.AutoMigrate(db); err != nil {
			return err
		}
	}

	publisher, closer := buildPublisher(env)
	defer closer.Close()

	handler := routes.NewRouter(db, env, routes.Options{Publisher: publisher})
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// buildPublisher wires the optional event sinks. A broker that cannot be
// reached is logged and skipped so the API still starts.
func buildPublisher(env configs.ENV) (events.Publisher, io.Closer) {
	var (
		publishers []events.Publisher
		closer     io.Closer = nopCloser{}
	)

	if env.RabbitMQURL != "" {
		mq, err := events.NewRabbitMQ(env.RabbitMQURL, env.OrderExchange)
		if err != nil {
			log.Printf("buildPublisher: order events disabled: %v", err)
		} else {
			publishers = append(publishers, mq)
			closer = mq
		}
	}

	if env.EmailHost != "" {
		mailer := services.NewMailer(services.MailConfig{
			Host:     env.EmailHost,
			Port:     env.EmailPort,
			Username: env.EmailUsername,
			Password: env.EmailPassword,
			From:     env.EmailFrom,
		})
		publishers = append(publishers, services.NewOrderMailer(mailer, env.PaymentCurrency))
	}

	if len(publishers) == 0 {
		return events.Noop{}, closer
	}
	return events.Multi(publishers...), closer
}
