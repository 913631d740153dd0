package accumulations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/KirkDiggler/state-accumulation/internal/accumulation"
	"github.com/KirkDiggler/state-accumulation/internal/domain/states"
	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) record(id string, value float64, count int) *accumulation.Record {
	rec := accumulation.NewRecord(id)
	rec.Accumulation[3] = value
	rec.ImmunityCount[3] = count
	return rec
}

func (s *RedisRepoTestSuite) marshal(v any) string {
	data, err := json.Marshal(v)
	s.Require().NoError(err)
	return string(data)
}

func (s *RedisRepoTestSuite) TestSave() {
	ctx := context.Background()
	rec := s.record("hero", 0.45, 1)

	// Happy path
	s.mock.ExpectSet("accumulation:character:hero", s.marshal(rec), 0).SetVal("OK")
	s.mock.ExpectSAdd(indexKey, "hero").SetVal(1)

	err := s.repo.Save(ctx, rec)
	s.NoError(err)

	// Dependency error
	s.mock.ExpectSet("accumulation:character:hero", s.marshal(rec), 0).SetErr(errors.New("redis error"))

	err = s.repo.Save(ctx, rec)
	s.Error(err)

	// Input validation
	s.True(dnderr.IsInvalidArgument(s.repo.Save(ctx, nil)))
	s.True(dnderr.IsInvalidArgument(s.repo.Save(ctx, &accumulation.Record{})))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	rec := s.record("hero", 1.05, 1)

	s.mock.ExpectGet("accumulation:character:hero").SetVal(s.marshal(rec))

	got, err := s.repo.Get(ctx, "hero")
	s.Require().NoError(err)
	s.Equal(rec, got)

	// Missing
	s.mock.ExpectGet("accumulation:character:ghost").RedisNil()

	_, err = s.repo.Get(ctx, "ghost")
	s.True(dnderr.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("accumulation:character:hero").SetErr(errors.New("redis error"))

	_, err = s.repo.Get(ctx, "hero")
	s.Error(err)
	s.False(dnderr.IsNotFound(err))

	// Input validation
	_, err = s.repo.Get(ctx, "")
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGet_RehydratesLegacyRecord() {
	ctx := context.Background()
	s.mock.ExpectGet("accumulation:character:veteran").SetVal(`{"accumulation":{"4":0.5}}`)

	got, err := s.repo.Get(ctx, "veteran")
	s.Require().NoError(err)

	s.Equal("veteran", got.CharacterID)
	s.Equal(0.5, got.Accumulation[states.ID(4)])
	s.NotNil(got.ImmunityCount)
	s.Empty(got.ImmunityCount)
}

func (s *RedisRepoTestSuite) TestGet_BadPayload() {
	s.mock.ExpectGet("accumulation:character:hero").SetVal("{not json")

	_, err := s.repo.Get(context.Background(), "hero")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestList() {
	s.mock.ExpectSMembers(indexKey).SetVal([]string{"orc", "hero"})

	ids, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.Equal([]string{"hero", "orc"}, ids)
}

func (s *RedisRepoTestSuite) TestSaveAll() {
	ctx := context.Background()
	hero := s.record("hero", 0.2, 0)
	orc := s.record("orc", 0.9, 2)

	s.mock.ExpectSMembers(indexKey).SetVal([]string{"hero"})
	s.mock.ExpectDel(indexKey).SetVal(1)
	s.mock.ExpectSet("accumulation:character:hero", s.marshal(hero), 0).SetVal("OK")
	s.mock.ExpectSet("accumulation:character:orc", s.marshal(orc), 0).SetVal("OK")
	s.mock.ExpectSAdd(indexKey, "hero", "orc").SetVal(2)

	err := s.repo.SaveAll(ctx, []*accumulation.Record{hero, orc})
	s.NoError(err)

	// Empty snapshot clears the index and every record it listed
	s.mock.ExpectSMembers(indexKey).SetVal([]string{"orc", "hero"})
	s.mock.ExpectDel(indexKey).SetVal(1)
	s.mock.ExpectDel("accumulation:character:hero", "accumulation:character:orc").SetVal(2)

	err = s.repo.SaveAll(ctx, nil)
	s.NoError(err)

	// Input validation happens before any command
	err = s.repo.SaveAll(ctx, []*accumulation.Record{hero, nil})
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestSaveAll_PrunesDroppedCharacters() {
	ctx := context.Background()
	hero := s.record("hero", 0.4, 1)

	s.mock.ExpectSMembers(indexKey).SetVal([]string{"hero", "reset-orc"})
	s.mock.ExpectDel(indexKey).SetVal(1)
	s.mock.ExpectDel("accumulation:character:reset-orc").SetVal(1)
	s.mock.ExpectSet("accumulation:character:hero", s.marshal(hero), 0).SetVal("OK")
	s.mock.ExpectSAdd(indexKey, "hero").SetVal(1)

	s.Require().NoError(s.repo.SaveAll(ctx, []*accumulation.Record{hero}))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RedisRepoTestSuite) TestSaveAll_IndexReadError() {
	s.mock.ExpectSMembers(indexKey).SetErr(errors.New("redis error"))

	err := s.repo.SaveAll(context.Background(), []*accumulation.Record{s.record("hero", 0.1, 0)})
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestLoadAll() {
	ctx := context.Background()
	hero := s.record("hero", 0.2, 0)
	orc := s.record("orc", 0.9, 2)

	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectSMembers(indexKey).SetVal([]string{"orc", "stale", "hero"})
	s.mock.ExpectGet("accumulation:character:hero").SetVal(s.marshal(hero))
	s.mock.ExpectGet("accumulation:character:orc").SetVal(s.marshal(orc))
	s.mock.ExpectGet("accumulation:character:stale").RedisNil()

	records, err := s.repo.LoadAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(hero, records[0])
	s.Equal(orc, records[1])
}

func (s *RedisRepoTestSuite) TestLoadAll_DependencyError() {
	s.mock.ExpectSMembers(indexKey).SetErr(errors.New("redis error"))

	_, err := s.repo.LoadAll(context.Background())
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()

	// Happy path
	s.mock.ExpectDel("accumulation:character:hero").SetVal(1)
	s.mock.ExpectSRem(indexKey, "hero").SetVal(1)

	s.NoError(s.repo.Delete(ctx, "hero"))

	// Missing
	s.mock.ExpectDel("accumulation:character:ghost").SetVal(0)
	s.mock.ExpectSRem(indexKey, "ghost").SetVal(0)

	s.True(dnderr.IsNotFound(s.repo.Delete(ctx, "ghost")))

	// Input validation
	s.True(dnderr.IsInvalidArgument(s.repo.Delete(ctx, "")))
}
