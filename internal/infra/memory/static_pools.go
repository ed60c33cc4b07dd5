package memory

import (
	"context"

	"geoquiz-service/internal/domain"
)

// StaticPoolLoader serves built-in pools; it backs demos, the terminal
// player, and tests when no database is configured.
type StaticPoolLoader struct {
	countries []domain.Country
	states    map[string][]domain.State
}

func NewStaticPoolLoader(countries []domain.Country, states map[string][]domain.State) *StaticPoolLoader {
	return &StaticPoolLoader{countries: countries, states: states}
}

// NewSeededPoolLoader returns a loader with the built-in seed pools.
func NewSeededPoolLoader() *StaticPoolLoader {
	return NewStaticPoolLoader(SeedCountries(), map[string][]domain.State{"USA": SeedStates()})
}

func (l *StaticPoolLoader) LoadCountries(_ context.Context) ([]domain.Country, error) {
	if len(l.countries) == 0 {
		return nil, domain.ErrPoolUnavailable
	}
	return l.countries, nil
}

func (l *StaticPoolLoader) LoadStates(_ context.Context, country string) ([]domain.State, error) {
	pool, ok := l.states[country]
	if !ok || len(pool) == 0 {
		return nil, domain.ErrPoolUnavailable
	}
	return pool, nil
}

// SeedCountries is the built-in geography pool.
func SeedCountries() []domain.Country {
	return []domain.Country{
		{Code: "US", Name: "United States", Capital: "Washington, D.C.", Continent: "North America", Flag: "🇺🇸", Population: 331900000, Area: 9833517},
		{Code: "GB", Name: "United Kingdom", Capital: "London", Continent: "Europe", Flag: "🇬🇧", Population: 67220000, Area: 243610},
		{Code: "FR", Name: "France", Capital: "Paris", Continent: "Europe", Flag: "🇫🇷", Population: 67390000, Area: 643801},
		{Code: "DE", Name: "Germany", Capital: "Berlin", Continent: "Europe", Flag: "🇩🇪", Population: 83240000, Area: 357114},
		{Code: "JP", Name: "Japan", Capital: "Tokyo", Continent: "Asia", Flag: "🇯🇵", Population: 125800000, Area: 377930},
		{Code: "CN", Name: "China", Capital: "Beijing", Continent: "Asia", Flag: "🇨🇳", Population: 1439320000, Area: 9596960},
		{Code: "IN", Name: "India", Capital: "New Delhi", Continent: "Asia", Flag: "🇮🇳", Population: 1380000000, Area: 3287263},
		{Code: "BR", Name: "Brazil", Capital: "Brasília", Continent: "South America", Flag: "🇧🇷", Population: 212600000, Area: 8515767},
		{Code: "CA", Name: "Canada", Capital: "Ottawa", Continent: "North America", Flag: "🇨🇦", Population: 38010000, Area: 9984670},
		{Code: "AU", Name: "Australia", Capital: "Canberra", Continent: "Oceania", Flag: "🇦🇺", Population: 25690000, Area: 7692024},
		{Code: "IT", Name: "Italy", Capital: "Rome", Continent: "Europe", Flag: "🇮🇹", Population: 59550000, Area: 301340},
		{Code: "ES", Name: "Spain", Capital: "Madrid", Continent: "Europe", Flag: "🇪🇸", Population: 47350000, Area: 505990},
		{Code: "MX", Name: "Mexico", Capital: "Mexico City", Continent: "North America", Flag: "🇲🇽", Population: 128900000, Area: 1964375},
		{Code: "RU", Name: "Russia", Capital: "Moscow", Continent: "Europe", Flag: "🇷🇺", Population: 144100000, Area: 17098242},
		{Code: "ZA", Name: "South Africa", Capital: "Pretoria", Continent: "Africa", Flag: "🇿🇦", Population: 59310000, Area: 1221037},
		{Code: "EG", Name: "Egypt", Capital: "Cairo", Continent: "Africa", Flag: "🇪🇬", Population: 102300000, Area: 1010408},
		{Code: "AR", Name: "Argentina", Capital: "Buenos Aires", Continent: "South America", Flag: "🇦🇷", Population: 45380000, Area: 2780400},
		{Code: "KR", Name: "South Korea", Capital: "Seoul", Continent: "Asia", Flag: "🇰🇷", Population: 51780000, Area: 100210},
		{Code: "NL", Name: "Netherlands", Capital: "Amsterdam", Continent: "Europe", Flag: "🇳🇱", Population: 17440000, Area: 41543},
		{Code: "SE", Name: "Sweden", Capital: "Stockholm", Continent: "Europe", Flag: "🇸🇪", Population: 10350000, Area: 450295},
		{Code: "TR", Name: "Turkey", Capital: "Ankara", Continent: "Asia", Flag: "🇹🇷", Population: 84340000, Area: 783562},
		{Code: "GR", Name: "Greece", Capital: "Athens", Continent: "Europe", Flag: "🇬🇷", Population: 10720000, Area: 131957},
		{Code: "PT", Name: "Portugal", Capital: "Lisbon", Continent: "Europe", Flag: "🇵🇹", Population: 10300000, Area: 92090},
		{Code: "NO", Name: "Norway", Capital: "Oslo", Continent: "Europe", Flag: "🇳🇴", Population: 5379000, Area: 385207},
	}
}

// SeedStates is the built-in US states pool.
func SeedStates() []domain.State {
	return []domain.State{
		{Name: "Alabama", Capital: "Montgomery", Code: "AL", Country: "USA", Population: 5024279, Area: 135767},
		{Name: "Alaska", Capital: "Juneau", Code: "AK", Country: "USA", Population: 733391, Area: 1723337},
		{Name: "Arizona", Capital: "Phoenix", Code: "AZ", Country: "USA", Population: 7151502, Area: 295234},
		{Name: "Arkansas", Capital: "Little Rock", Code: "AR", Country: "USA", Population: 3011524, Area: 137732},
		{Name: "California", Capital: "Sacramento", Code: "CA", Country: "USA", Population: 39538223, Area: 423967},
		{Name: "Colorado", Capital: "Denver", Code: "CO", Country: "USA", Population: 5773714, Area: 269601},
		{Name: "Connecticut", Capital: "Hartford", Code: "CT", Country: "USA", Population: 3605944, Area: 14357},
		{Name: "Delaware", Capital: "Dover", Code: "DE", Country: "USA", Population: 989948, Area: 6446},
		{Name: "Florida", Capital: "Tallahassee", Code: "FL", Country: "USA", Population: 21538187, Area: 170312},
		{Name: "Georgia", Capital: "Atlanta", Code: "GA", Country: "USA", Population: 10711908, Area: 153910},
		{Name: "Hawaii", Capital: "Honolulu", Code: "HI", Country: "USA", Population: 1455271, Area: 28313},
		{Name: "Idaho", Capital: "Boise", Code: "ID", Country: "USA", Population: 1839106, Area: 216443},
		{Name: "Illinois", Capital: "Springfield", Code: "IL", Country: "USA", Population: 12812508, Area: 149995},
		{Name: "Indiana", Capital: "Indianapolis", Code: "IN", Country: "USA", Population: 6785528, Area: 94326},
		{Name: "Iowa", Capital: "Des Moines", Code: "IA", Country: "USA", Population: 3190369, Area: 145746},
		{Name: "Kansas", Capital: "Topeka", Code: "KS", Country: "USA", Population: 2937880, Area: 213100},
		{Name: "Kentucky", Capital: "Frankfort", Code: "KY", Country: "USA", Population: 4505836, Area: 104656},
		{Name: "Louisiana", Capital: "Baton Rouge", Code: "LA", Country: "USA", Population: 4657757, Area: 135659},
		{Name: "Maine", Capital: "Augusta", Code: "ME", Country: "USA", Population: 1362359, Area: 91633},
		{Name: "Maryland", Capital: "Annapolis", Code: "MD", Country: "USA", Population: 6177224, Area: 32131},
		{Name: "Massachusetts", Capital: "Boston", Code: "MA", Country: "USA", Population: 7029917, Area: 27336},
		{Name: "Michigan", Capital: "Lansing", Code: "MI", Country: "USA", Population: 10077331, Area: 250487},
		{Name: "Minnesota", Capital: "Saint Paul", Code: "MN", Country: "USA", Population: 5706494, Area: 225163},
		{Name: "Mississippi", Capital: "Jackson", Code: "MS", Country: "USA", Population: 2961279, Area: 125438},
		{Name: "Missouri", Capital: "Jefferson City", Code: "MO", Country: "USA", Population: 6154913, Area: 180540},
		{Name: "Montana", Capital: "Helena", Code: "MT", Country: "USA", Population: 1084225, Area: 380831},
		{Name: "Nebraska", Capital: "Lincoln", Code: "NE", Country: "USA", Population: 1961504, Area: 200330},
		{Name: "Nevada", Capital: "Carson City", Code: "NV", Country: "USA", Population: 3104614, Area: 286380},
		{Name: "New Hampshire", Capital: "Concord", Code: "NH", Country: "USA", Population: 1377529, Area: 24214},
		{Name: "New Jersey", Capital: "Trenton", Code: "NJ", Country: "USA", Population: 9288994, Area: 22591},
		{Name: "New Mexico", Capital: "Santa Fe", Code: "NM", Country: "USA", Population: 2117522, Area: 314917},
		{Name: "New York", Capital: "Albany", Code: "NY", Country: "USA", Population: 20201249, Area: 141297},
		{Name: "North Carolina", Capital: "Raleigh", Code: "NC", Country: "USA", Population: 10439388, Area: 139391},
		{Name: "North Dakota", Capital: "Bismarck", Code: "ND", Country: "USA", Population: 779094, Area: 183108},
		{Name: "Ohio", Capital: "Columbus", Code: "OH", Country: "USA", Population: 11799448, Area: 116098},
		{Name: "Oklahoma", Capital: "Oklahoma City", Code: "OK", Country: "USA", Population: 3959353, Area: 181037},
		{Name: "Oregon", Capital: "Salem", Code: "OR", Country: "USA", Population: 4237256, Area: 254799},
		{Name: "Pennsylvania", Capital: "Harrisburg", Code: "PA", Country: "USA", Population: 13002700, Area: 119280},
		{Name: "Rhode Island", Capital: "Providence", Code: "RI", Country: "USA", Population: 1097379, Area: 4001},
		{Name: "South Carolina", Capital: "Columbia", Code: "SC", Country: "USA", Population: 5118425, Area: 82933},
		{Name: "South Dakota", Capital: "Pierre", Code: "SD", Country: "USA", Population: 886667, Area: 199729},
		{Name: "Tennessee", Capital: "Nashville", Code: "TN", Country: "USA", Population: 6910840, Area: 109153},
		{Name: "Texas", Capital: "Austin", Code: "TX", Country: "USA", Population: 29145505, Area: 695662},
		{Name: "Utah", Capital: "Salt Lake City", Code: "UT", Country: "USA", Population: 3271616, Area: 219882},
		{Name: "Vermont", Capital: "Montpelier", Code: "VT", Country: "USA", Population: 643077, Area: 24906},
		{Name: "Virginia", Capital: "Richmond", Code: "VA", Country: "USA", Population: 8631393, Area: 110787},
		{Name: "Washington", Capital: "Olympia", Code: "WA", Country: "USA", Population: 7705281, Area: 184661},
		{Name: "West Virginia", Capital: "Charleston", Code: "WV", Country: "USA", Population: 1793716, Area: 62756},
		{Name: "Wisconsin", Capital: "Madison", Code: "WI", Country: "USA", Population: 5893718, Area: 169635},
		{Name: "Wyoming", Capital: "Cheyenne", Code: "WY", Country: "USA", Population: 576851, Area: 253335},
	}
}
