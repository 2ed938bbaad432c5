package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testDB is shared by every test in the package; each test works on its
// own rows so they can run in any order.
var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("skipping dao tests, dockertest unavailable: %v", err)
		os.Exit(0)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Printf("skipping dao tests, docker unavailable: %v", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=guide",
			"POSTGRES_PASSWORD=guide",
			"POSTGRES_DB=guide_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	_ = resource.Expire(300)

	pool.MaxWait = 2 * time.Minute
	dsn := fmt.Sprintf("host=localhost port=%v user=guide password=guide dbname=guide_test sslmode=disable",
		resource.GetPort("5432/tcp"))
	err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}

		testDB = db

		return nil
	})
	if err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err := InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}
	if err := SeedRoles(context.Background(), testDB); err != nil {
		log.Fatalf("could not seed roles: %v", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}
