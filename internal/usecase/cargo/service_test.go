package cargo

import (
	"context"
	"errors"
	"testing"

	domainCargo "fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/transport"
	"fleet-console/internal/mocks"
	appErrors "fleet-console/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRepo(t *testing.T) *mocks.MockCargoRepository {
	return mocks.NewMockCargoRepository(gomock.NewController(t))
}

func status(s transport.Status) *transport.Status { return &s }

func TestListRowsAndSort(t *testing.T) {
	repo := newRepo(t)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q page.Query) (*page.Page[domainCargo.Cargo], error) {
			assert.Equal(t, []string{"transport.id,desc"}, q.Sort)
			assert.Equal(t, DefaultPageSize, q.Size)
			return &page.Page[domainCargo.Cargo]{Content: []domainCargo.Cargo{
				{ID: 1, TransportStatus: status(transport.StatusInProgress)},
			}}, nil
		})

	res, err := NewService(repo).List(context.Background(), &ListRequest{Sort: "transportId", Dir: "desc"})
	require.NoError(t, err)
	require.Len(t, res.Page.Content, 1)
	assert.False(t, res.Page.Content[0].CanDelete)
	assert.Equal(t, "Cannot delete: transport status is IN_PROGRESS.", res.Page.Content[0].DeleteTooltip)
}

func TestFormValidation(t *testing.T) {
	base := Form{TransportID: "3", CargoDescription: "Pallets", WeightKg: "10", VolumeM3: "2"}
	tests := []struct {
		name   string
		mutate func(f *Form)
		want   string
	}{
		{"missing weight", func(f *Form) { f.WeightKg = "" }, "Provide a valid cargo weight"},
		{"zero weight", func(f *Form) { f.WeightKg = "0" }, "Provide a valid cargo weight"},
		{"bad volume", func(f *Form) { f.VolumeM3 = "abc" }, "Provide a valid cargo volume"},
		{"infinite weight", func(f *Form) { f.WeightKg = "Inf" }, "Provide a valid cargo weight"},
		{"NaN volume", func(f *Form) { f.VolumeM3 = "NaN" }, "Provide a valid cargo volume"},
		{"dates reversed", func(f *Form) {
			f.PickupDate = "2026-03-02T10:00"
			f.DeliveryDate = "2026-03-01T10:00"
		}, "Delivery date must be after pickup date"},
		{"no transport", func(f *Form) { f.TransportID = "" }, "Select a transport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A rejected form never reaches the API; the mock fails on any call.
			form := base
			tt.mutate(&form)
			_, err := NewService(newRepo(t)).Create(context.Background(), &form)
			require.Error(t, err)
			assert.Equal(t, tt.want, appErrors.UserMessage(err))
		})
	}
}

func TestCreateAcceptsCommaDecimals(t *testing.T) {
	repo := newRepo(t)
	var req *domainCargo.CreateRequest
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *domainCargo.CreateRequest) (*domainCargo.Cargo, error) {
			req = r
			return &domainCargo.Cargo{ID: 1}, nil
		})

	_, err := NewService(repo).Create(context.Background(), &Form{
		TransportID:      "3",
		CargoDescription: "  Pallets ",
		WeightKg:         "12,5",
		VolumeM3:         "1.5",
		PickupDate:       "2026-03-01T10:00",
		DeliveryDate:     "2026-03-02T10:00",
	})
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, "Pallets", req.CargoDescription)
	assert.Equal(t, 12.5, req.WeightKg)
	assert.Equal(t, int64(3), req.TransportID)
	require.NotNil(t, req.PickupDate)
	assert.True(t, req.PickupDate.Before(*req.DeliveryDate))
}

func TestCreateForTransport(t *testing.T) {
	repo := newRepo(t)
	repo.EXPECT().CreateForTransport(gomock.Any(), int64(8), gomock.Any()).Return(&domainCargo.Cargo{ID: 2}, nil)

	c, err := NewService(repo).CreateForTransport(context.Background(), 8, &Form{CargoDescription: "Steel", WeightKg: "1", VolumeM3: "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.ID)
}

func TestCreatePassesBackendErrors(t *testing.T) {
	repo := newRepo(t)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("down"))

	_, err := NewService(repo).Create(context.Background(), &Form{TransportID: "3", CargoDescription: "Steel", WeightKg: "1", VolumeM3: "1"})
	assert.EqualError(t, err, "down")
}

func TestUpdateKeepsTransport(t *testing.T) {
	repo := newRepo(t)
	repo.EXPECT().Update(gomock.Any(), int64(4), gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, req *domainCargo.UpdateRequest) (*domainCargo.Cargo, error) {
			assert.Nil(t, req.TransportID)
			assert.Equal(t, "Steel", *req.CargoDescription)
			assert.Equal(t, 3.0, *req.VolumeM3)
			return &domainCargo.Cargo{ID: id}, nil
		})

	_, err := NewService(repo).Update(context.Background(), 4, &Form{TransportID: "99", CargoDescription: "Steel", WeightKg: "2", VolumeM3: "3"})
	require.NoError(t, err)
}

func TestDeleteHonoursRule(t *testing.T) {
	tests := []struct {
		name    string
		cargo   domainCargo.Cargo
		wantMsg string
	}{
		{"finished transport", domainCargo.Cargo{ID: 1, TransportStatus: status(transport.StatusFinished)}, "Cannot delete: transport status is FINISHED."},
		{"planned transport", domainCargo.Cargo{ID: 2, TransportStatus: status(transport.StatusPlanned)}, ""},
		{"no transport", domainCargo.Cargo{ID: 3}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t)
			c := tt.cargo
			repo.EXPECT().GetByID(gomock.Any(), c.ID).Return(&c, nil)
			if tt.wantMsg == "" {
				repo.EXPECT().Delete(gomock.Any(), c.ID).Return(nil)
			}

			err := NewService(repo).Delete(context.Background(), c.ID)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, appErrors.ErrNotAllowed))
			assert.Equal(t, tt.wantMsg, appErrors.UserMessage(err))
		})
	}
}
