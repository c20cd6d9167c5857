// Package types provides the core data types shared by the boat widgets, the data
// service and the HTTP API.
package types

import "math"

// Boat is a rentable boat record.
type Boat struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Picture      string   `json:"picture,omitempty" yaml:"picture,omitempty"`
	Price        float64  `json:"price" yaml:"price"`
	Length       float64  `json:"length" yaml:"length"`
	Year         int      `json:"year,omitempty" yaml:"year,omitempty"`
	BoatTypeID   string   `json:"boatTypeID" yaml:"boatTypeID"`
	BoatTypeName string   `json:"boatTypeName,omitempty" yaml:"boatTypeName,omitempty"`
	ContactName  string   `json:"contactName,omitempty" yaml:"contactName,omitempty"`
	Location     GeoPoint `json:"location" yaml:"location"`
}

// BoatType is a boat category used by the search form.
type BoatType struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// BoatReview is a user review of a boat.
type BoatReview struct {
	ID        string       `json:"id" yaml:"id"`
	BoatID    string       `json:"boatID" yaml:"boatID"`
	Subject   string       `json:"subject" yaml:"subject"`
	Comment   string       `json:"comment,omitempty" yaml:"comment,omitempty"`
	Rating    int          `json:"rating" yaml:"rating"`
	CreatedBy ReviewAuthor `json:"createdBy" yaml:"createdBy"`
	Time      ReviewTime   `json:"time" yaml:"time"`
}

// ReviewAuthor identifies the user who wrote a review.
type ReviewAuthor struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	PhotoURL string `json:"photoURL,omitempty" yaml:"photoURL,omitempty"`
}

// ReviewTime contains timestamps for a review (unix milliseconds).
type ReviewTime struct {
	Created int64 `json:"created" yaml:"created"`
}

// GeoPoint is a latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points.
func (p GeoPoint) DistanceKm(o GeoPoint) float64 {
	lat1 := p.Latitude * math.Pi / 180
	lat2 := o.Latitude * math.Pi / 180
	dLat := (o.Latitude - p.Latitude) * math.Pi / 180
	dLon := (o.Longitude - p.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
