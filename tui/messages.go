package tui

// Routing names for the loaders owned by Model

const (
	systemInfoName = "system-info"
	overviewName   = "overview"
	airQualityName = "air-quality"
)

type page int

const (
	pageBysykler page = iota
	pageLuftkvalitet
)

func (p page) title() string {
	switch p {
	case pageLuftkvalitet:
		return "Luftkvalitet"
	default:
		return "Bysykler"
	}
}
