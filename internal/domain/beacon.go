package domain

// Beacon is a physical proximity device placed on campus. Its hardware
// identifier is the primary key; a beacon may advertise several stations.
type Beacon struct {
	BeaconID     string  `json:"beacon_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	OwnerGroupID *uint   `json:"owner_group_id,omitempty"`
	StationIDs   []uint  `json:"station_ids"`
}
