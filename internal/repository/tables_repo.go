package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Werneck0live/simulador-tributario/internal/tables"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateVersion = errors.New("tables version already exists")
	ErrTablesNotFound   = errors.New("tables version not found")
)

// record usa a versão como _id, do mesmo jeito que o documento é identificado na API.
type record struct {
	ID              string `bson:"_id"`
	tables.Document `bson:",inline"`
}

// VersionInfo é a linha da listagem de versões guardadas.
type VersionInfo struct {
	Versao   string    `bson:"versao" json:"versao"`
	Vigencia string    `bson:"vigencia" json:"vigencia"`
	CriadoEm time.Time `bson:"criado_em" json:"criado_em"`
}

type TablesRepository struct {
	coll *mongo.Collection
}

func NewTablesRepository(db *mongo.Database) *TablesRepository {
	return &TablesRepository{coll: db.Collection("tabelas_referencia")}
}

func (r *TablesRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "criado_em", Value: -1}},
		Options: options.Index().
			SetName("idx_criado_em"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	// Se já existir com outra opção, tenta dropar e recriar
	if ce, ok := err.(mongo.CommandError); ok && ce.Code == 85 { // IndexOptionsConflict
		if _, dropErr := r.coll.Indexes().DropOne(ctx, "idx_criado_em"); dropErr != nil {
			return fmt.Errorf("drop index idx_criado_em: %w", dropErr)
		}
		_, createErr := r.coll.Indexes().CreateOne(ctx, model)
		return createErr
	}
	return err
}

func isDuplicate(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}

// Create guarda uma versão nova. Versões são imutáveis: repetir a versão dá ErrDuplicateVersion.
func (r *TablesRepository) Create(ctx context.Context, doc *tables.Document) error {
	if doc.Versao == "" {
		return errors.New("versao is required")
	}
	if doc.CriadoEm.IsZero() {
		doc.CriadoEm = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, record{ID: doc.Versao, Document: *doc})
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateVersion
		}
		return err
	}
	return nil
}

func (r *TablesRepository) findOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*tables.Document, error) {
	var rec record
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTablesNotFound
		}
		return nil, err
	}
	return &rec.Document, nil
}

func (r *TablesRepository) GetByVersion(ctx context.Context, versao string) (*tables.Document, error) {
	return r.findOne(ctx, bson.M{"_id": versao})
}

// Latest devolve a versão gravada mais recentemente.
func (r *TablesRepository) Latest(ctx context.Context) (*tables.Document, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "criado_em", Value: -1}})
	return r.findOne(ctx, bson.M{}, opts)
}

func (r *TablesRepository) ListVersions(ctx context.Context) ([]VersionInfo, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "criado_em", Value: -1}}).
		SetProjection(bson.M{"versao": 1, "vigencia": 1, "criado_em": 1})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []VersionInfo{}
	for cur.Next(ctx) {
		var v VersionInfo
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, cur.Err()
}

func (r *TablesRepository) Delete(ctx context.Context, versao string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": versao})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTablesNotFound
	}
	return nil
}
