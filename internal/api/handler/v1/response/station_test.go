package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapirent/smart-campus/internal/domain"
)

func testImageURL(path string) string {
	return "/uploads/" + path
}

func TestBuildStation(t *testing.T) {
	groupID := uint(9)
	station := domain.Station{
		ID:       3,
		Name:     "Library",
		Category: &domain.StationCategory{Name: "History"},
		Lat:      25.017,
		Lng:      121.539,
		Images: []domain.StationImage{
			{ID: 1, Path: "station/a.jpg"},
			{ID: 2, Path: "station/b.jpg", IsPrimary: true},
		},
		BeaconIDs:    []string{"b-1"},
		OwnerGroupID: &groupID,
	}

	out := BuildStation(station, []uint{11, 14}, testImageURL)

	assert.Equal(t, "History", out.Category)
	assert.Equal(t, [2]float64{121.539, 25.017}, out.Location)
	assert.Equal(t, "/uploads/station/b.jpg", out.Image.Primary)
	assert.Equal(t, []string{"/uploads/station/a.jpg"}, out.Image.Others)
	assert.Equal(t, []uint{11, 14}, out.Rewards)

	t.Run("EmptyStationNormalized", func(t *testing.T) {
		out := BuildStation(domain.Station{ID: 1}, nil, testImageURL)
		assert.Empty(t, out.Image.Primary)
		assert.NotNil(t, out.Image.Others)
		assert.NotNil(t, out.BeaconIDs)
		assert.NotNil(t, out.Rewards)
	})
}

func TestBuildStations_RewardsByStation(t *testing.T) {
	stations := []domain.Station{{ID: 1}, {ID: 2}}
	rewardsByStation := map[uint][]uint{1: {7}}

	out := BuildStations(stations, rewardsByStation, testImageURL)

	require.Len(t, out, 2)
	assert.Equal(t, []uint{7}, out[0].Rewards)
	assert.Empty(t, out[1].Rewards)
}

func TestBuildAdminStation(t *testing.T) {
	groupID := uint(9)
	station := domain.Station{
		ID:           3,
		OwnerGroupID: &groupID,
		Images: []domain.StationImage{
			{ID: 1, Path: "station/a.jpg", IsPrimary: true},
			{ID: 2, Path: "station/b.jpg"},
		},
	}

	out := BuildAdminStation(station, testImageURL)

	require.NotNil(t, out.OwnerGroupID)
	assert.Equal(t, groupID, *out.OwnerGroupID)
	require.Len(t, out.Images, 2)
	assert.True(t, out.Images[0].IsPrimary)
	assert.Equal(t, "/uploads/station/b.jpg", out.Images[1].URL)
}
