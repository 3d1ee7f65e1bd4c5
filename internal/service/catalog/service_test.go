package catalog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/avelorn/staygo/internal/domain"
	"github.com/avelorn/staygo/internal/repository"
	redisrepo "github.com/avelorn/staygo/internal/repository/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *mockStore) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *mockStore) ListRoomsByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *mockStore) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := new(mockStore)
	return New(store, redisrepo.New(rdb), Config{}), store
}

func TestListHotels_CachesResult(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	store.On("ListHotels", mock.Anything).Return([]domain.Hotel{
		{ID: 1, Name: "Seaside Inn", IsActive: true},
	}, nil).Once()

	for i := 0; i < 3; i++ {
		hotels, err := svc.ListHotels(ctx)
		require.NoError(t, err)
		require.Len(t, hotels, 1)
		assert.Equal(t, "Seaside Inn", hotels[0].Name)
	}

	store.AssertNumberOfCalls(t, "ListHotels", 1)
}

func TestGetHotel(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	store.On("GetHotel", mock.Anything, int64(3)).
		Return(&domain.Hotel{ID: 3, Name: "Alpine Lodge"}, nil).Once()

	h, err := svc.GetHotel(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Alpine Lodge", h.Name)

	// served from the cache
	h, err = svc.GetHotel(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Alpine Lodge", h.Name)
	store.AssertNumberOfCalls(t, "GetHotel", 1)
}

func TestGetHotel_NotFound(t *testing.T) {
	svc, store := newTestService(t)

	store.On("GetHotel", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetHotel(context.Background(), 99)
	require.ErrorIs(t, err, ErrHotelNotFound)
}

func TestListRooms(t *testing.T) {
	svc, store := newTestService(t)

	store.On("ListRoomsByHotel", mock.Anything, int64(3)).Return([]domain.Room{
		{ID: 7, HotelID: 3, RoomNumber: "204", PriceCentsNight: 10000},
	}, nil).Once()

	rooms, err := svc.ListRooms(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, int64(10000), rooms[0].PriceCentsNight)
}

func TestGetRoom_NotFound(t *testing.T) {
	svc, store := newTestService(t)

	store.On("GetRoom", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetRoom(context.Background(), 99)
	require.ErrorIs(t, err, ErrRoomNotFound)
}
