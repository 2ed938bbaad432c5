package response

import (
	"github.com/rapirent/smart-campus/internal/domain"
)

// Station is the app-facing station payload. Location is rendered as a
// GeoJSON-style [lng, lat] pair; images come nested as one primary URL
// plus the rest.
type Station struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Content   string          `json:"content"`
	Location  [2]float64      `json:"location"`
	Image     StationImageSet `json:"image"`
	BeaconIDs []string        `json:"beacon_ids"`
	Rewards   []uint          `json:"rewards"`
}

type StationImageSet struct {
	Primary string   `json:"primary"`
	Others  []string `json:"others"`
}

func BuildStation(s domain.Station, rewardIDs []uint, imageURL func(path string) string) Station {
	out := Station{
		ID:        s.ID,
		Name:      s.Name,
		Content:   s.Content,
		Location:  [2]float64{s.Lng, s.Lat},
		Image:     StationImageSet{Others: []string{}},
		BeaconIDs: s.BeaconIDs,
		Rewards:   rewardIDs,
	}
	if s.Category != nil {
		out.Category = s.Category.Name
	}
	if primary := s.PrimaryImage(); primary != nil {
		out.Image.Primary = imageURL(primary.Path)
	}
	for _, img := range s.OtherImages() {
		out.Image.Others = append(out.Image.Others, imageURL(img.Path))
	}
	if out.BeaconIDs == nil {
		out.BeaconIDs = []string{}
	}
	if out.Rewards == nil {
		out.Rewards = []uint{}
	}

	return out
}

// BuildStations renders the station list; rewardsByStation maps a
// station id to the reward ids redeemable there.
func BuildStations(stations []domain.Station, rewardsByStation map[uint][]uint, imageURL func(path string) string) []Station {
	out := make([]Station, len(stations))
	for i, s := range stations {
		out[i] = BuildStation(s, rewardsByStation[s.ID], imageURL)
	}

	return out
}

// AdminStation carries the extra fields the console needs on top of the
// app payload, including per-image ids for the primary/delete actions.
type AdminStation struct {
	Station
	OwnerGroupID *uint          `json:"owner_group_id,omitempty"`
	Images       []StationImage `json:"images"`
}

type StationImage struct {
	ID        uint   `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

func BuildAdminStation(s domain.Station, imageURL func(path string) string) AdminStation {
	out := AdminStation{
		Station:      BuildStation(s, nil, imageURL),
		OwnerGroupID: s.OwnerGroupID,
		Images:       make([]StationImage, len(s.Images)),
	}
	for i, img := range s.Images {
		out.Images[i] = StationImage{
			ID:        img.ID,
			URL:       imageURL(img.Path),
			IsPrimary: img.IsPrimary,
		}
	}

	return out
}
