package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Werneck0live/simulador-tributario/internal/repository"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
)

// TablesStore é o que o seed precisa do repositório.
type TablesStore interface {
	Create(ctx context.Context, doc *tables.Document) error
}

// SeedReferenceTables grava a versão embutida das tabelas.
// Idempotente: se a versão já existir, ignora.
func SeedReferenceTables(ctx context.Context, store TablesStore, log *slog.Logger) error {
	doc, err := tables.EmbeddedDocument()
	if err != nil {
		return err
	}
	// não grava documento que o motor não conseguiria carregar
	if _, err := tables.Build(doc); err != nil {
		return fmt.Errorf("embedded tables: %w", err)
	}

	// timeout curto pra não travar
	ictx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = store.Create(ictx, &doc)
	cancel()

	if err != nil {
		if errors.Is(err, repository.ErrDuplicateVersion) {
			log.Info("seed_tables_exists", "versao", doc.Versao)
			return nil
		}
		return err
	}
	log.Info("seed_tables_created", "versao", doc.Versao, "cnaes", len(doc.CNAEs))
	return nil
}
