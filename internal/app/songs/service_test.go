package songs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"setlists/internal/app"
	"setlists/internal/auth"
	"setlists/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListSongs(ctx context.Context) ([]models.Song, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Song), args.Error(1)
}

func (m *MockStore) GetSong(ctx context.Context, id string) (models.Song, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Song), args.Error(1)
}

func (m *MockStore) CreateSong(ctx context.Context, song models.Song) (models.Song, error) {
	args := m.Called(ctx, song)
	return args.Get(0).(models.Song), args.Error(1)
}

func (m *MockStore) UpdateSong(ctx context.Context, song models.Song) (models.Song, error) {
	args := m.Called(ctx, song)
	return args.Get(0).(models.Song), args.Error(1)
}

func (m *MockStore) DeleteSong(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var principal = auth.Principal{UserID: "u1", Role: models.RoleUser}

func TestCreateTrimsAndStampsCreator(t *testing.T) {
	m := new(MockStore)
	want := models.Song{Title: "So What", Key: "Dm", CreatedBy: "u1"}
	m.On("CreateSong", mock.Anything, want).Return(models.Song{ID: "s1", Title: "So What"}, nil)

	song, err := New(m).Create(context.Background(), principal, Input{Title: " So What ", Key: " Dm", Tempo: "  "})
	assert.NoError(t, err)
	assert.Equal(t, "s1", song.ID)
	m.AssertExpectations(t)
}

func TestCreateRequiresTitle(t *testing.T) {
	m := new(MockStore)
	_, err := New(m).Create(context.Background(), principal, Input{Title: "   "})
	assert.ErrorIs(t, err, app.ErrInvalidInput)
	m.AssertNotCalled(t, "CreateSong", mock.Anything, mock.Anything)
}

func TestUpdateUsesPathID(t *testing.T) {
	m := new(MockStore)
	m.On("UpdateSong", mock.Anything, models.Song{ID: "s1", Title: "Blue Bossa", Tempo: "140"}).
		Return(models.Song{ID: "s1", Title: "Blue Bossa", Tempo: "140"}, nil)

	_, err := New(m).Update(context.Background(), principal, "s1", Input{Title: "Blue Bossa", Tempo: "140"})
	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestAnonymousCallerRejected(t *testing.T) {
	m := new(MockStore)
	err := New(m).Delete(context.Background(), auth.Principal{}, "s1")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	m.AssertNotCalled(t, "DeleteSong", mock.Anything, mock.Anything)
}
