package freepull

import "github.com/vantail/collectroom/internal/domain"

// pullTemplate is one product a free pull can land on.
type pullTemplate struct {
	Brand        string
	Model        string
	ProductImage string
	ProductValue float64
}

// pullPool is the curated product set free pulls draw from. Paid boxes have
// their own tiered pools server-side; the daily freebie stays on this list.
var pullPool = []pullTemplate{
	{Brand: "Seiko", Model: "Presage Cocktail Time", ProductImage: "/products/seiko-cocktail.webp", ProductValue: 425},
	{Brand: "Tissot", Model: "PRX Powermatic 80", ProductImage: "/products/tissot-prx.webp", ProductValue: 675},
	{Brand: "Hamilton", Model: "Khaki Field Mechanical", ProductImage: "/products/hamilton-khaki.webp", ProductValue: 595},
	{Brand: "Orient", Model: "Bambino 38", ProductImage: "/products/orient-bambino.webp", ProductValue: 280},
	{Brand: "Citizen", Model: "Tsuyosa", ProductImage: "/products/citizen-tsuyosa.webp", ProductValue: 350},
	{Brand: "Tudor", Model: "Black Bay 58", ProductImage: "/products/tudor-bb58.webp", ProductValue: 3950},
	{Brand: "Longines", Model: "Spirit Zulu Time", ProductImage: "/products/longines-zulu.webp", ProductValue: 3150},
	{Brand: "Omega", Model: "Speedmaster Professional", ProductImage: "/products/omega-speedmaster.webp", ProductValue: 7400},
}

func pointsForBand(band domain.RarityBand) int {
	switch band {
	case domain.BandMythic:
		return PointsMythic
	case domain.BandGrail:
		return PointsGrail
	case domain.BandRare:
		return PointsRare
	default:
		return PointsIcon
	}
}

func shardsForBand(band domain.RarityBand) int {
	switch band {
	case domain.BandMythic:
		return ShardsMythic
	case domain.BandGrail:
		return ShardsGrail
	case domain.BandRare:
		return ShardsRare
	default:
		return ShardsIcon
	}
}
