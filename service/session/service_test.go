package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"valuation-service/service/dataset"
	"valuation-service/service/meta"
	"valuation-service/service/models"
	"valuation-service/service/monitoring"
	"valuation-service/service/valuation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const serviceCSV = "site,reading,notes\nWeir A,3.5,ok\nWeir B,,\nWeir A,3.5,ok\n"

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, v *models.Valuation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, v.SubmitID)
	return p.err
}

func (p *recordingPublisher) Name() string { return "recording" }

// ServiceTestSuite 会话服务测试套件
type ServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *fakeValuationStore
	publisher *recordingPublisher
	metrics   *monitoring.Metrics
	service   *Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newFakeValuationStore()
	s.publisher = &recordingPublisher{}
	s.metrics = monitoring.NewMetrics(prometheus.NewRegistry())
	s.service = NewService(NewMemoryStore(time.Hour), nil, s.store, s.publisher, s.metrics, Options{
		Policy: valuation.DisplayPolicy{SuppressZeroTags: true},
	})
}

func (s *ServiceTestSuite) newReadySession() string {
	sess, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	_, err = s.service.UploadDataset(s.ctx, sess.ID, "weirs.csv", []byte(serviceCSV))
	s.Require().NoError(err)
	_, err = s.service.SelectUseCase(s.ctx, sess.ID, "Water Quality Risk Assessment")
	s.Require().NoError(err)
	return sess.ID
}

func (s *ServiceTestSuite) TestUploadComputesQuality() {
	sess, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	updated, err := s.service.UploadDataset(s.ctx, sess.ID, "weirs.csv", []byte(serviceCSV))
	s.Require().NoError(err)

	ds := updated.Dataset
	s.Equal([]string{"site", "reading", "notes"}, ds.Columns)
	s.Equal(models.QualityReport{Rows: 3, Cols: 3, MissingCells: 2, MissingRatio: 0.2222, Duplicates: 1}, ds.Quality)
	s.Len(ds.Preview, 3)
	s.Equal(dataset.Fingerprint([]byte(serviceCSV), "weirs.csv", int64(len(serviceCSV))), ds.Fingerprint)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Uploads.WithLabelValues("csv", "ok")))
}

func (s *ServiceTestSuite) TestUploadFailureLeavesSessionUntouched() {
	id := s.newReadySession()

	_, err := s.service.UploadDataset(s.ctx, id, "notes.txt", []byte("hello"))
	s.ErrorIs(err, dataset.ErrUnsupportedFormat)

	_, err = s.service.UploadDataset(s.ctx, id, "empty.csv", nil)
	s.ErrorIs(err, dataset.ErrEmptyFile)

	sess, err := s.service.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("weirs.csv", sess.Dataset.Name)
	s.Equal("Water Quality Risk Assessment", sess.UseCase)
}

func (s *ServiceTestSuite) TestUnknownSession() {
	_, err := s.service.Rate(s.ctx, "missing", meta.DimensionEconomic, 3)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.service.Summary(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.service.Delete(s.ctx, "missing"), ErrNotFound)
}

func (s *ServiceTestSuite) TestCalculateSavesAndPublishesOnce() {
	id := s.newReadySession()
	_, err := s.service.Rate(s.ctx, id, meta.DimensionEconomic, 5)
	s.Require().NoError(err)
	_, err = s.service.ConfirmScores(s.ctx, id)
	s.Require().NoError(err)

	view, err := s.service.Calculate(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(16.67, view.FinalScorePercent)
	s.Equal([]string{meta.DimensionEconomic}, view.TopDimensions)
	s.Equal(StateSaved, view.State)
	s.Equal(OutcomeInserted, view.Outcome)

	// 重复提交被跳过
	again, err := s.service.Submit(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(OutcomeSkipped, again.Outcome)
	s.Equal(view.SubmitID, again.SubmitID)

	s.Len(s.store.rows, 1)
	s.Equal([]string{view.SubmitID}, s.publisher.published)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Saves.WithLabelValues(monitoring.SaveInserted)))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Saves.WithLabelValues(monitoring.SaveSkipped)))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Calculations.WithLabelValues("false")))
}

func (s *ServiceTestSuite) TestSaveFailureIsNonFatal() {
	id := s.newReadySession()
	_, err := s.service.ConfirmScores(s.ctx, id)
	s.Require().NoError(err)

	s.store.fail = errors.New("db unavailable")
	view, err := s.service.Calculate(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(StateSaveFailed, view.State)
	s.Contains(view.SaveError, "db unavailable")
	s.Equal(0.0, view.FinalScorePercent)
	s.Empty(view.TopDimensions, "全零得分时隐藏标签")
	s.Empty(s.publisher.published)

	s.store.fail = nil
	retry, err := s.service.Submit(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(StateSaved, retry.State)
	s.Equal(view.SubmitID, retry.SubmitID)
	s.Len(s.store.rows, 1)
}

func (s *ServiceTestSuite) TestPublishFailureIsNonFatal() {
	s.publisher.err = errors.New("broker down")
	id := s.newReadySession()
	_, err := s.service.ConfirmScores(s.ctx, id)
	s.Require().NoError(err)

	view, err := s.service.Calculate(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(StateSaved, view.State)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PublishFailures.WithLabelValues("recording")))
}

func (s *ServiceTestSuite) TestSubmitBeforeCalculate() {
	id := s.newReadySession()
	_, err := s.service.Submit(s.ctx, id)
	s.ErrorIs(err, ErrNotCalculated)
}

func (s *ServiceTestSuite) TestFailedMutationIsNotPersisted() {
	id := s.newReadySession()
	_, err := s.service.Rate(s.ctx, id, meta.DimensionEconomic, 4)
	s.Require().NoError(err)

	_, err = s.service.Rate(s.ctx, id, meta.DimensionEconomic, 9)
	s.ErrorIs(err, valuation.ErrStarsOutOfRange)

	sess, err := s.service.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(4, sess.CurrentRatings()[meta.DimensionEconomic])
}

func (s *ServiceTestSuite) TestSummaryAfterWeightedCalculation() {
	id := s.newReadySession()
	_, err := s.service.Rate(s.ctx, id, meta.DimensionEnvironmental, 5)
	s.Require().NoError(err)
	_, err = s.service.Rate(s.ctx, id, meta.DimensionDataQuality, 5)
	s.Require().NoError(err)
	_, err = s.service.ConfirmScores(s.ctx, id)
	s.Require().NoError(err)
	_, err = s.service.SetWeighting(s.ctx, id, true, map[string]float64{
		meta.DimensionEnvironmental: 1.0,
		meta.DimensionDataQuality:   0.2,
	})
	s.Require().NoError(err)

	view, err := s.service.Calculate(s.ctx, id)
	s.Require().NoError(err)
	// (5*1.0 + 5*0.2) / (5 * (1.0+0.2+0.5*4)) * 100
	s.Equal(37.5, view.FinalScorePercent)
	s.Equal([]string{meta.DimensionEnvironmental}, view.TopDimensions)

	summary, err := s.service.Summary(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(meta.DimensionEnvironmental, summary.Rows[0].Dimension)
	s.Require().NotNil(summary.Rows[1].WeightedScore)
	s.Equal(1.0, *summary.Rows[1].WeightedScore)
}

func (s *ServiceTestSuite) TestConcurrentRatingsAreSerialized() {
	id := s.newReadySession()

	var wg sync.WaitGroup
	for i, d := range meta.ValueDimensions() {
		wg.Add(1)
		go func(d string, stars int) {
			defer wg.Done()
			_, err := s.service.Rate(s.ctx, id, d, stars)
			assert.NoError(s.T(), err)
		}(d, i%5+1)
	}
	wg.Wait()

	sess, err := s.service.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Len(sess.CurrentRatings(), 6, "并发评分不应互相覆盖")
}

func (s *ServiceTestSuite) TestDelete() {
	id := s.newReadySession()
	s.Require().NoError(s.service.Delete(s.ctx, id))
	_, err := s.service.Get(s.ctx, id)
	s.ErrorIs(err, ErrNotFound)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(NewMemoryStore(time.Minute), nil, newFakeValuationStore(), nil, nil, Options{})
	require.NotNil(t, svc.locker)
	require.NotNil(t, svc.opts.Now)

	sess, err := svc.Create(context.Background())
	require.NoError(t, err)
	_, err = svc.ConfirmScores(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrNoDataset)
}
