package ingest

// Passage is one chunk of a document plus provenance, the unit handed
// to the vector index. Passages are transient: they live only long
// enough to become index points.
type Passage struct {
	ID     string
	Text   string
	Source string
	Title  string
}

// DefaultSeeds is curated sports content included in every run so the
// index has baseline topical coverage even when every feed fails.
// IDs are assigned at collection time.
var DefaultSeeds = []Passage{
	{
		Text:   "Latest football transfer news: Manchester United signs new midfielder for record fee. The Premier League club announced the signing after weeks of negotiations.",
		Source: "https://example.com/sports/football",
		Title:  "Manchester United Signs New Midfielder",
	},
	{
		Text:   "Cricket World Cup 2024: India defeats Australia in thrilling final match. The match went to the last over with India winning by 6 runs.",
		Source: "https://example.com/sports/cricket",
		Title:  "India Wins Cricket World Cup 2024",
	},
	{
		Text:   "NBA Finals 2024: Lakers vs Celtics Game 7 tonight. Both teams are tied 3-3 in the series, making this the deciding game.",
		Source: "https://example.com/sports/basketball",
		Title:  "NBA Finals Game 7 Tonight",
	},
	{
		Text:   "Tennis Grand Slam: Novak Djokovic wins Wimbledon 2024, extending his record to 25 Grand Slam titles. He defeated Carlos Alcaraz in straight sets.",
		Source: "https://example.com/sports/tennis",
		Title:  "Djokovic Wins Wimbledon 2024",
	},
	{
		Text:   "Formula 1 Monaco Grand Prix: Max Verstappen takes pole position for Sunday's race. Red Bull Racing continues to dominate the 2024 season.",
		Source: "https://example.com/sports/f1",
		Title:  "Verstappen Takes Monaco Pole",
	},
}
