package models

import "time"

// NumUsecases is the number of trip purposes tracked per time step
const NumUsecases = 7

// Usecases lists the trip purposes in column order
var Usecases = [NumUsecases]string{"work", "business", "school", "shopping", "private", "leisure", "home"}

// Intensities holds one value per usecase, in Usecases order
type Intensities [NumUsecases]float64

// Add returns the element-wise sum of i and o
func (i Intensities) Add(o Intensities) Intensities {
	for k := range i {
		i[k] += o[k]
	}
	return i
}

// Map returns the intensities keyed by usecase name
func (i Intensities) Map() map[string]float64 {
	m := make(map[string]float64, NumUsecases)
	for k, name := range Usecases {
		m[name] = i[k]
	}
	return m
}

// Region identifies one simulated region
type Region struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Type string `json:"type" yaml:"type"`
}

// Run represents one stored scenario run
type Run struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	StepSize    int       `json:"step_size"`
	Seed        int64     `json:"seed"`
	SocMin      float64   `json:"soc_min"`
	EtaCP       float64   `json:"eta_cp"`
	HomePrivate float64   `json:"home_private"`
	WorkPrivate float64   `json:"work_private"`
}

// Bucket is one resampled time step of a region's activity series
type Bucket struct {
	ID     int         `json:"id"`
	RunID  string      `json:"run_id"`
	Region string      `json:"region"`
	Start  time.Time   `json:"start"` // bucket start timestamp
	Values Intensities `json:"values"`
}

// Trip is one synthetic trip record placed on the absolute time-step axis
type Trip struct {
	ID            int      `json:"id"`
	RunID         string   `json:"run_id"`
	Region        string   `json:"region"`
	WeekID        string   `json:"week_id"`
	Day           int      `json:"day"`            // 0 = Monday
	DepartureTime float64  `json:"departure_time"` // minutes after midnight
	TimeStep      int      `json:"time_step"`
	Attributes    []string `json:"attributes,omitempty"`
}
