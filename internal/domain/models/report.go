package models

import "time"

// HerdSnapshot holds the raw aggregates read from the relational store for a
// time window.
type HerdSnapshot struct {
	ActiveCattle    int     `json:"activeCattle"`
	ProducingCattle int     `json:"producingCattle"`
	ActiveLots      int     `json:"activeLots"`
	ActiveBreeds    int     `json:"activeBreeds"`
	Products        int     `json:"products"`
	TotalMilk       float64 `json:"totalMilk"`
}

// HerdReport represents the aggregated daily data archived in MongoDB.
type HerdReport struct {
	Date            time.Time `bson:"date" json:"date"`
	ActiveCattle    int       `bson:"active_cattle" json:"activeCattle"`
	ProducingCattle int       `bson:"producing_cattle" json:"producingCattle"`
	ActiveLots      int       `bson:"active_lots" json:"activeLots"`
	ActiveBreeds    int       `bson:"active_breeds" json:"activeBreeds"`
	Products        int       `bson:"products" json:"products"`
	TotalMilk       float64   `bson:"total_milk" json:"totalMilk"`
	AverageMilk     float64   `bson:"average_milk" json:"averageMilk"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// HerdReportHeader labels the columns produced by Row.
func HerdReportHeader() []interface{} {
	return []interface{}{
		"date", "active cattle", "producing cattle", "lots", "breeds", "products", "total milk", "average milk",
	}
}

// Row renders the report as a spreadsheet row, date first.
func (r HerdReport) Row() []interface{} {
	return []interface{}{
		r.Date.Format(dateLayout),
		r.ActiveCattle,
		r.ProducingCattle,
		r.ActiveLots,
		r.ActiveBreeds,
		r.Products,
		r.TotalMilk,
		r.AverageMilk,
	}
}
