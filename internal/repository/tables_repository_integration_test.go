//go:build integration
// +build integration

package repository

/*
	Para Rodar: go test -tags=integration -v ./internal/repository -run TestTablesRepository_Integration -count=1

	obs: Rodar todos os de integração: go test -tags=integration -v ./... -count=1
*/

import (
	"context"
	"errors"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/Werneck0live/simulador-tributario/internal/db"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
)

// Exercita: Create -> duplicado -> GetByVersion -> Latest -> ListVersions -> Delete
func TestTablesRepository_Integration_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Sobe Mongo real
	mongoC, err := mongodb.RunContainer(ctx, tc.WithImage("mongo:7"))
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { _ = mongoC.Terminate(ctx) })

	uri, err := mongoC.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("conn string: %v", err)
	}

	client, err := db.NewMongoClient(uri)
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	repo := NewTablesRepository(client.Database("testdb"))
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	// 1) Create com o documento embutido
	doc, err := tables.EmbeddedDocument()
	if err != nil {
		t.Fatalf("embedded: %v", err)
	}
	doc.CriadoEm = time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	if err := repo.Create(ctx, &doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	// 2) Mesma versão de novo
	if err := repo.Create(ctx, &doc); !errors.Is(err, ErrDuplicateVersion) {
		t.Fatalf("want ErrDuplicateVersion, got %v", err)
	}

	// 3) GetByVersion volta um documento que ainda monta as tabelas
	got, err := repo.GetByVersion(ctx, doc.Versao)
	if err != nil {
		t.Fatalf("get by version: %v", err)
	}
	tb, err := tables.Build(*got)
	if err != nil {
		t.Fatalf("build from stored document: %v", err)
	}
	if tb.Version() != doc.Versao {
		t.Fatalf("version mismatch: %s", tb.Version())
	}
	if c, _ := tb.Coefficient(2030); c.String() != "0.3" {
		t.Fatalf("transition lost in round trip: %s", c)
	}

	// 4) Latest pega a mais recente
	newer := doc
	newer.Versao = "2026.1"
	newer.CriadoEm = time.Time{}
	if err := repo.Create(ctx, &newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}
	latest, err := repo.Latest(ctx)
	if err != nil || latest.Versao != "2026.1" {
		t.Fatalf("latest mismatch: %#v err=%v", latest, err)
	}

	// 5) ListVersions
	list, err := repo.ListVersions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Versao != "2026.1" || list[1].Versao != doc.Versao {
		t.Fatalf("list mismatch: %#v", list)
	}

	// 6) Delete
	if err := repo.Delete(ctx, "2026.1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByVersion(ctx, "2026.1"); !errors.Is(err, ErrTablesNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "2026.1"); !errors.Is(err, ErrTablesNotFound) {
		t.Fatalf("second delete: want ErrTablesNotFound, got %v", err)
	}
}
