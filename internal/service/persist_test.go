package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"feedsink/internal/domain"
	"feedsink/internal/service/mocks"
	"feedsink/internal/sink"
)

type PersistServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source    *mocks.MockSource
	persister *mocks.MockPersister

	service *PersistService
	cfg     sink.Config
	now     time.Time
	logger  *slog.Logger
}

func (s *PersistServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.persister = mocks.NewMockPersister(s.ctrl)

	s.cfg = sink.Config{Kind: sink.KindRelational, Name: "items", DatePattern: "%Y%m", Address: "sqlite://:memory:"}
	s.now = time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewPersistService(s.source, s.persister, s.cfg, s.logger,
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *PersistServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPersistServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PersistServiceTestSuite))
}

func (s *PersistServiceTestSuite) TestRun_PersistsFetchedBatch() {
	ctx := context.Background()
	batch := &domain.Batch{Items: []domain.Item{{GUID: "a"}, {GUID: "b"}}}

	s.source.EXPECT().Fetch(gomock.Any()).Return(batch, nil)
	s.persister.EXPECT().
		Persist(gomock.Any(), batch, s.cfg, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Batch, _ sink.Config, run domain.Run) (*domain.PersistStats, error) {
			s.Equal(s.now, run.StartedAt)
			s.NotEmpty(run.ID)
			return &domain.PersistStats{RunID: run.ID, Target: "items_202403", Items: 2, Written: 2}, nil
		})

	stats, err := s.service.Run(ctx)

	s.NoError(err)
	s.Equal("items_202403", stats.Target)
	s.Equal(2, stats.Written)
}

func (s *PersistServiceTestSuite) TestRun_EachRunGetsItsOwnID() {
	ctx := context.Background()
	batch := &domain.Batch{}
	var ids []string

	s.source.EXPECT().Fetch(gomock.Any()).Return(batch, nil).Times(2)
	s.persister.EXPECT().
		Persist(gomock.Any(), batch, s.cfg, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Batch, _ sink.Config, run domain.Run) (*domain.PersistStats, error) {
			ids = append(ids, run.ID)
			return &domain.PersistStats{RunID: run.ID}, nil
		}).Times(2)

	_, err := s.service.Run(ctx)
	s.Require().NoError(err)
	_, err = s.service.Run(ctx)
	s.Require().NoError(err)

	s.Len(ids, 2)
	s.NotEqual(ids[0], ids[1])
}

func (s *PersistServiceTestSuite) TestRun_FetchError() {
	ctx := context.Background()

	s.source.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("dns failure"))
	s.persister.EXPECT().Persist(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	stats, err := s.service.Run(ctx)

	s.Error(err)
	s.Nil(stats)
	s.Contains(err.Error(), "fetch batch")
}

func (s *PersistServiceTestSuite) TestRun_PersistErrorKeepsCategory() {
	ctx := context.Background()

	s.source.EXPECT().Fetch(gomock.Any()).Return(&domain.Batch{}, nil)
	s.persister.EXPECT().
		Persist(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.Join(domain.ErrConnection, errors.New("refused")))

	_, err := s.service.Run(ctx)

	s.Error(err)
	s.True(errors.Is(err, domain.ErrConnection))
}

func (s *PersistServiceTestSuite) TestRun_WithFileDispatcher() {
	ctx := context.Background()
	dir := s.T().TempDir()
	cfg := sink.Config{Kind: sink.KindFile, Name: filepath.Join(dir, "feed.json"), DatePattern: "%Y-%m-%d"}

	s.source.EXPECT().Fetch(gomock.Any()).Return(&domain.Batch{Items: []domain.Item{{GUID: "a"}}}, nil)

	service := NewPersistService(s.source, sink.NewDispatcher(&bytes.Buffer{}, s.logger), cfg, s.logger,
		WithClock(func() time.Time { return s.now }),
	)

	stats, err := service.Run(ctx)

	s.Require().NoError(err)
	s.Equal(filepath.Join(dir, "feed_2024-03-09.json"), stats.Target)
	s.FileExists(stats.Target)
	s.Equal(1, stats.Written)
}
