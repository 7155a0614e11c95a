package router

import (
	"net/http"

	"github.com/GustavoCaso/spadesk/internal/resource"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

// Dashboard widgets share the page URL, each under its own prefix.
const (
	giftCardPrefix  = "gift_card_"
	inventoryPrefix = "inventory_"
)

type homeData struct {
	viewBase
	Widgets []listingView
}

func (router *router) homeHandler(w http.ResponseWriter, r *http.Request) {
	data := homeData{viewBase: router.newViewBase("Dashboard", "")}

	widgets := []struct {
		entity string
		prefix string
	}{
		{storage.GiftCardsEntity, giftCardPrefix},
		{storage.InventoryEntity, inventoryPrefix},
	}
	for _, widget := range widgets {
		res, ok := resource.Lookup(router.resources, widget.entity)
		if !ok {
			continue
		}
		data.Widgets = append(data.Widgets, router.buildListing(r.Context(), r.URL, res, widget.prefix))
	}

	router.templates.Render(w, "pages/home.html", data)
}

type listingData struct {
	viewBase
	Listing listingView
}

func (router *router) listingHandler(w http.ResponseWriter, r *http.Request) {
	res, ok := resource.Lookup(router.resources, r.PathValue("entity"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := listingData{
		viewBase: router.newViewBase(res.Title(), res.Name()),
		Listing:  router.buildListing(r.Context(), r.URL, res, ""),
	}

	router.templates.Render(w, "pages/listing.html", data)
}
