package entities

// InvalidPlaceID помечает адрес, который сервис геокодинга не смог распознать.
// Такие точки в доставку не отправляются.
const InvalidPlaceID = "INVALID_ADDRESS"

type Point struct {
	Lat float64
	Lng float64
}

type Address struct {
	Formatted string
	Location  *Point
	Geohash   string
	PlaceID   string
}

func (a *Address) IsInvalid() bool {
	return a.PlaceID == InvalidPlaceID
}

func (a *Address) HasCoordinates() bool {
	return a.Location != nil || a.Geohash != ""
}

type Supplier struct {
	ID      string
	Name    string
	Phone   string
	Address Address
}

type Recipient struct {
	ID      string
	Name    string
	Phone   string
	Address Address
	Notes   string
}

// GeocodedAddress ответ сервиса валидации адресов.
type GeocodedAddress struct {
	Formatted string
	Location  Point
	PlaceID   string
}
