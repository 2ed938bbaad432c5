package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeaconDAO_ReplaceStations(t *testing.T) {
	beaconDAO := NewBeaconDAO(testDB)
	ctx := context.Background()

	library := mustInsertStation(t, "Library")
	cafeteria := mustInsertStation(t, "Cafeteria")

	beacon, err := beaconDAO.Insert(ctx, Beacon{BeaconID: "hall-beacon-1", Name: "Hall Beacon 1"})
	require.NoError(t, err)

	err = beaconDAO.ReplaceStations(ctx, Beacon{BeaconID: beacon.BeaconID}, []Station{{ID: library.ID}, {ID: cafeteria.ID}})
	require.NoError(t, err)

	found, err := beaconDAO.FindByID(ctx, beacon.BeaconID)
	require.NoError(t, err)
	require.Len(t, found.Stations, 2)

	// Swapping down to one station drops the other link.
	err = beaconDAO.ReplaceStations(ctx, Beacon{BeaconID: beacon.BeaconID}, []Station{{ID: cafeteria.ID}})
	require.NoError(t, err)

	found, err = beaconDAO.FindByID(ctx, beacon.BeaconID)
	require.NoError(t, err)
	require.Len(t, found.Stations, 1)
	assert.Equal(t, cafeteria.ID, found.Stations[0].ID)

	// An empty set clears every link.
	err = beaconDAO.ReplaceStations(ctx, Beacon{BeaconID: beacon.BeaconID}, nil)
	require.NoError(t, err)

	found, err = beaconDAO.FindByID(ctx, beacon.BeaconID)
	require.NoError(t, err)
	assert.Empty(t, found.Stations)
}

func TestBeaconDAO_Update_KeepsStationLinks(t *testing.T) {
	beaconDAO := NewBeaconDAO(testDB)
	ctx := context.Background()

	station := mustInsertStation(t, "Sports Hall")
	beacon, err := beaconDAO.Insert(ctx, Beacon{BeaconID: "sports-beacon-1", Name: "Sports Beacon 1"})
	require.NoError(t, err)
	err = beaconDAO.ReplaceStations(ctx, Beacon{BeaconID: beacon.BeaconID}, []Station{{ID: station.ID}})
	require.NoError(t, err)

	beacon.Name = "Sports Beacon 1 (renamed)"
	beacon.Stations = nil
	_, err = beaconDAO.Update(ctx, beacon)
	require.NoError(t, err)

	found, err := beaconDAO.FindByID(ctx, beacon.BeaconID)
	require.NoError(t, err)
	assert.Equal(t, "Sports Beacon 1 (renamed)", found.Name)
	require.Len(t, found.Stations, 1)
	assert.Equal(t, station.ID, found.Stations[0].ID)
}
