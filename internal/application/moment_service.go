package application

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/memoria-app/memoria/internal/domain/entity"
	repo "github.com/memoria-app/memoria/internal/domain/repository"
)

// MomentService owns moment CRUD, the atomic view counter and the deletion
// fan-out that keeps memory membership lists free of dangling references.
type MomentService struct {
	Moments  repo.MomentRepository
	Memories repo.MemoryRepository
	Blobs    BlobStorage
	Logger   *logrus.Logger
	ES       *elasticsearch.Client
	ESIndex  string
}

func NewMomentService(moments repo.MomentRepository, memories repo.MemoryRepository, blobs BlobStorage, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *MomentService {
	return &MomentService{Moments: moments, Memories: memories, Blobs: blobs, Logger: logger, ES: es, ESIndex: esIndex}
}

type CreateMomentInput struct {
	Text  string
	Mood  string
	Tags  []string
	Media []MediaUpload
}

func (s *MomentService) Create(ctx context.Context, ownerID string, in CreateMomentInput) (*entity.Moment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", repo.ErrValidation)
	}
	mood := strings.TrimSpace(in.Mood)
	if mood == "" {
		mood = entity.DefaultMood
	}

	media := make([]entity.MediaItem, 0, len(in.Media))
	for _, up := range in.Media {
		item, err := s.uploadMedia(ctx, ownerID, "media", up)
		if err != nil {
			return nil, err
		}
		media = append(media, item)
	}

	m := &entity.Moment{
		OwnerID: ownerID,
		Text:    text,
		Mood:    mood,
		Tags:    in.Tags,
		Media:   media,
	}
	if err := s.Moments.Create(ctx, m); err != nil {
		return nil, err
	}
	s.indexMoment(ctx, m)
	return m, nil
}

func (s *MomentService) Get(ctx context.Context, ownerID, id string) (*entity.Moment, error) {
	if err := validMomentID(id); err != nil {
		return nil, err
	}
	return s.Moments.GetByID(ctx, ownerID, id)
}

func (s *MomentService) List(ctx context.Context, ownerID string, f repo.MomentFilter) ([]*entity.Moment, int64, error) {
	return s.Moments.List(ctx, ownerID, f)
}

func (s *MomentService) Update(ctx context.Context, ownerID, id string, p repo.MomentPatch) (*entity.Moment, error) {
	if err := validMomentID(id); err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", repo.ErrValidation)
	}
	m, err := s.Moments.Patch(ctx, ownerID, id, p)
	if err != nil {
		return nil, err
	}
	s.indexMoment(ctx, m)
	return m, nil
}

// IncrementViews is a single conditional update in the store; concurrent
// view events never lose increments.
func (s *MomentService) IncrementViews(ctx context.Context, ownerID, id string) (*entity.Moment, error) {
	if err := validMomentID(id); err != nil {
		return nil, err
	}
	return s.Moments.IncrementViews(ctx, ownerID, id)
}

// Delete removes the moment's media blobs, deletes the record, then fans
// out across the owner's memories pulling every reference to it. The
// fan-out is best-effort: a failure after the record is gone leaves
// orphaned references until SweepOrphans runs, and is logged, not retried.
func (s *MomentService) Delete(ctx context.Context, ownerID, id string) error {
	if err := validMomentID(id); err != nil {
		return err
	}
	m, err := s.Moments.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if s.Blobs != nil {
		for _, item := range m.Media {
			if err := s.Blobs.Delete(ctx, item.Filename); err != nil && s.Logger != nil {
				s.Logger.WithError(err).WithField("object", item.Filename).Warn("media blob delete failed")
			}
		}
	}

	if err := s.Moments.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.Memories.PullMemberAll(ctx, ownerID, id); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"owner_id":  ownerID,
			"moment_id": id,
		}).Warn("membership fan-out failed; orphaned references remain until sweep")
	}

	s.deindexMoment(ctx, id)
	return nil
}

// Search queries the Elasticsearch moments index, scoped to the owner.
// Returns empty results when no index is configured.
func (s *MomentService) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"owner_id": ownerID}},
				},
				"must": []any{
					map[string]any{"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"text^2", "tags"},
					}},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *MomentService) uploadMedia(ctx context.Context, ownerID, prefix string, up MediaUpload) (entity.MediaItem, error) {
	if s.Blobs == nil {
		return entity.MediaItem{}, fmt.Errorf("%w: blob storage not configured", repo.ErrValidation)
	}
	kind := entity.MediaVideo
	if strings.HasPrefix(up.ContentType, "image/") {
		kind = entity.MediaImage
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	objectPath := filepath.ToSlash(filepath.Join(prefix, ownerID, uuid.NewString()+ext))
	url, err := s.Blobs.Upload(ctx, objectPath, up.ContentType, up.Reader)
	if err != nil {
		return entity.MediaItem{}, err
	}
	return entity.MediaItem{Kind: kind, URL: url, Filename: objectPath}, nil
}

// indexMoment mirrors the moment into Elasticsearch, best-effort.
func (s *MomentService) indexMoment(ctx context.Context, m *entity.Moment) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         m.ID,
		"owner_id":   m.OwnerID,
		"text":       m.Text,
		"mood":       m.Mood,
		"tags":       m.Tags,
		"created_at": m.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: m.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("moment_id", m.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("moment_id", m.ID).Warn("es index response error")
	}
}

func (s *MomentService) deindexMoment(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("moment_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

func validMomentID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid moment id", repo.ErrValidation)
	}
	return nil
}
