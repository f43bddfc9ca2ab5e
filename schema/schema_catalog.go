package schema

// CountySummary counts the districts and schools of one county.
type CountySummary struct {
	County    string `json:"county"`
	Districts int    `json:"districts"`
	Schools   int    `json:"schools"`
}

// DistrictSummary counts the schools of one district.
type DistrictSummary struct {
	County   string `json:"county"`
	District string `json:"district"`
	Schools  int    `json:"schools"`
}
