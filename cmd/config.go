package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// MatchRadiusKm bounds how far from the pickup point a courier may be
	// and still be matched.
	MatchRadiusKm float64
	// AvgSpeedKmh feeds the route duration estimate.
	AvgSpeedKmh float64
	// DefaultDeliveryFee is applied when a dispatch request carries no fee.
	DefaultDeliveryFee float64
	// StaleMaxAgeMin is how many minutes an assignment may wait for
	// acceptance before the sweep cancels it.
	StaleMaxAgeMin int
	// NotifierBufferSize bounds the in-flight dispatch event queue.
	NotifierBufferSize int
}
