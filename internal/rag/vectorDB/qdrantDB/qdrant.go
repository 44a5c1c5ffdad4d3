package qdrantDB

import (
	"context"
	"fmt"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClientHolder maps each namespace onto its own qdrant collection.
type ClientHolder struct {
	QObj *qdrant.Client
	host string
	log  *logger_i.Logger
}

func New(ctx context.Context, cfg config.VectorIndexConfig) (*ClientHolder, error) {
	log := logger_i.NewLogger("qdrant")
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		APIKey:   cfg.APIKey,
		UseTLS:   cfg.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", commonModels.ErrIndexUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if _, err := client.HealthCheck(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s:%d: %v", commonModels.ErrIndexUnavailable, cfg.Host, cfg.Port, err)
	}

	log.Info("connected to qdrant", "host", cfg.Host, "port", cfg.Port)
	go closeQdrant(ctx, client, log)
	return &ClientHolder{
		QObj: client,
		host: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		log:  log,
	}, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client, log *logger_i.Logger) {
	<-ctx.Done()
	log.Debug("shutting down qdrant client")
	if err := qi.Close(); err != nil {
		log.Error("could not close qdrant", "error", err)
	}
}

// PointID derives a stable UUID from the chip id, since qdrant only accepts
// UUIDs or integers as point ids.
func PointID(chipID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chipID)).String()
}

func (db *ClientHolder) EnsureNamespace(ctx context.Context, namespace string, dimension int) error {
	if namespace == "" {
		return commonModels.ErrNamespaceRequired
	}
	exists, err := db.QObj.CollectionExists(ctx, namespace)
	if err != nil {
		return classify("check collection "+namespace, err)
	}
	if exists {
		return nil
	}
	db.log.Info("creating collection", "namespace", namespace, "dimension", dimension)
	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: namespace,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return classify("create collection "+namespace, err)
	}
	return nil
}

func (db *ClientHolder) ClearNamespace(ctx context.Context, namespace string) error {
	if namespace == "" {
		return commonModels.ErrNamespaceRequired
	}
	exists, err := db.QObj.CollectionExists(ctx, namespace)
	if err != nil {
		return classify("check collection "+namespace, err)
	}
	if !exists {
		return nil
	}
	db.log.Info("deleting collection", "namespace", namespace)
	if err := db.QObj.DeleteCollection(ctx, namespace); err != nil {
		return classify("delete collection "+namespace, err)
	}
	return nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, namespace string, vectors []commonModels.ChipVector) error {
	if len(vectors) == 0 {
		return nil
	}
	points := make([]*qdrant.PointStruct, 0, len(vectors))
	for _, v := range vectors {
		if len(v.Vector) == 0 {
			return fmt.Errorf("%w: %s has no vector", commonModels.ErrVectorCountMismatch, v.ChipID)
		}
		payload, err := toPayload(v)
		if err != nil {
			return fmt.Errorf("payload for %s: %w", v.ChipID, err)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(v.ChipID)),
			Vectors: qdrant.NewVectors(v.Vector...),
			Payload: payload,
		})
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: namespace,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return classify("qdrant upsert", err)
	}
	return nil
}

func toPayload(v commonModels.ChipVector) (map[string]*qdrant.Value, error) {
	raw := make(map[string]any, len(v.Payload)+1)
	for k, val := range v.Payload {
		raw[k] = val
	}
	raw["chip_id"] = v.ChipID
	return qdrant.TryValueMap(raw)
}

func (db *ClientHolder) Search(ctx context.Context, namespace string, vector []float32, topK int) ([]commonModels.SearchHit, error) {
	if namespace == "" {
		return nil, commonModels.ErrNamespaceRequired
	}
	log := db.log.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: namespace,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("error querying qdrant", "error", err)
		return nil, classify("qdrant query", err)
	}

	hits := make([]commonModels.SearchHit, 0, len(result))
	for _, hit := range result {
		hits = append(hits, commonModels.SearchHit{
			ChipID: hit.Payload["chip_id"].GetStringValue(),
			Type:   hit.Payload["type"].GetStringValue(),
			Score:  float64(hit.Score),
		})
	}
	log.Debug("search complete", "namespace", namespace, "hits", len(hits))
	return hits, nil
}

// classify maps transport failures onto the shared sentinel errors.
func classify(op string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %v", op, commonModels.ErrIndexUnavailable, err)
	case codes.ResourceExhausted:
		return fmt.Errorf("%s: %w: %v", op, commonModels.ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
