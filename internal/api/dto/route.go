package dto

type RouteRequest struct {
	Strategy string `json:"strategy"`
}

type RouteStopResponse struct {
	Address string    `json:"address"`
	Coord   []float64 `json:"coord"`
	Type    string    `json:"type"`
	Label   string    `json:"label,omitempty"`
}

type RouteResponse struct {
	Stops                []RouteStopResponse `json:"stops"`
	Path                 [][]float64         `json:"path,omitempty"`
	TotalDurationSeconds int                 `json:"total_time_seconds"`
	DurationText         string              `json:"duration_text,omitempty"`
	StopIndex            int                 `json:"stop_index"`
	Completed            bool                `json:"completed"`
	NextStop             *RouteStopResponse  `json:"next_stop,omitempty"`
	Remaining            int                 `json:"remaining"`
	LastError            string              `json:"last_error,omitempty"`
}

type ReverseGeocodeRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ReverseGeocodeResponse struct {
	Address string `json:"address"`
}
