package cart

// Static catalog, standing in for a real product service.

type product struct {
	UID          string
	Name         string
	PriceInCents int64
	Sizes        []string
	ImageURL     string
}

func findProduct(productUID string) (product, bool) {
	for _, p := range catalog {
		if p.UID == productUID {
			return p, true
		}
	}

	return product{}, false
}

var catalog = []product{
	{
		UID:          "product_classic_tee",
		Name:         "Classic tee",
		PriceInCents: 2000,
		Sizes:        []string{"S", "M", "L", "XL"},
		ImageURL:     "/static/img/classic_tee.jpg",
	},
	{
		UID:          "product_hoodie",
		Name:         "Hoodie",
		PriceInCents: 4500,
		Sizes:        []string{"S", "M", "L", "XL"},
		ImageURL:     "/static/img/hoodie.jpg",
	},
	{
		UID:          "product_sneakers",
		Name:         "Sneakers",
		PriceInCents: 7500,
		Sizes:        []string{"40", "41", "42", "43", "44"},
		ImageURL:     "/static/img/sneakers.jpg",
	},
	{
		UID:          "product_baseball_cap",
		Name:         "Baseball cap",
		PriceInCents: 1500,
		ImageURL:     "/static/img/baseball_cap.jpg",
	},
	{
		UID:          "product_tote_bag",
		Name:         "Tote bag",
		PriceInCents: 1200,
		ImageURL:     "/static/img/tote_bag.jpg",
	},
	{
		UID:          "product_socks",
		Name:         "Socks (3-pack)",
		PriceInCents: 900,
		Sizes:        []string{"36-40", "41-46"},
		ImageURL:     "/static/img/socks.jpg",
	},
}
