package screens

import (
	"net/url"
	"strconv"

	"github.com/eaglebank/console/internal/demo"
	"github.com/eaglebank/console/internal/listing"
	"github.com/eaglebank/console/internal/models"
)

type Customers struct {
	*listing.Controller[models.Customer, listing.CustomerCriteria]
}

func NewCustomers(d Deps) *Customers {
	d = d.withDefaults()
	return &Customers{Controller: listing.NewController(listing.Config[models.Customer, listing.CustomerCriteria]{
		Name:      "customers",
		Endpoints: []listing.Endpoint[models.Customer]{{Name: "admin", Fetch: pageOf(d.Bank.Customers)}},
		State: listing.NewState(
			listing.CustomerCriteria{},
			listing.Pagination{Size: d.PageSize, SortBy: "name", SortDir: listing.Asc},
			listing.DefaultParamNames,
		),
		PageStyle: listing.EllipsisStyle,
		Demo: func(query url.Values) models.Page[models.Customer] {
			return models.NewPage(demo.Customers(), atoi(query.Get("page")), atoi(query.Get("size")))
		},
		DemoEnabled: d.DemoMode,
	})}
}

type Users struct {
	*listing.Controller[models.User, listing.UserCriteria]
}

func NewUsers(d Deps) *Users {
	d = d.withDefaults()
	return &Users{Controller: listing.NewController(listing.Config[models.User, listing.UserCriteria]{
		Name:      "users",
		Endpoints: []listing.Endpoint[models.User]{{Name: "admin", Fetch: pageOf(d.Bank.Users)}},
		State: listing.NewState(
			listing.UserCriteria{},
			listing.Pagination{Size: d.PageSize, SortBy: "username", SortDir: listing.Asc},
			listing.DefaultParamNames,
		),
		PageStyle: listing.EllipsisStyle,
		Demo: func(query url.Values) models.Page[models.User] {
			return models.NewPage(demo.Users(), atoi(query.Get("page")), atoi(query.Get("size")))
		},
		DemoEnabled: d.DemoMode,
	})}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
