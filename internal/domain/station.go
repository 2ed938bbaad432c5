package domain

import "time"

type StationCategory struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Station struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Content      string           `json:"content"`
	Category     *StationCategory `json:"category,omitempty"`
	Lat          float64          `json:"lat"`
	Lng          float64          `json:"lng"`
	OwnerGroupID *uint            `json:"owner_group_id,omitempty"`
	Images       []StationImage   `json:"images"`
	BeaconIDs    []string         `json:"beacon_ids"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// PrimaryImage returns the station's designated cover image, or nil if
// none of its images is marked primary.
func (s Station) PrimaryImage() *StationImage {
	for i := range s.Images {
		if s.Images[i].IsPrimary {
			return &s.Images[i]
		}
	}

	return nil
}

// OtherImages returns every non-primary image in stored order.
func (s Station) OtherImages() []StationImage {
	var others []StationImage
	for _, img := range s.Images {
		if !img.IsPrimary {
			others = append(others, img)
		}
	}

	return others
}

type StationImage struct {
	ID        uint   `json:"id"`
	StationID uint   `json:"station_id"`
	Path      string `json:"path"`
	IsPrimary bool   `json:"is_primary"`
}
