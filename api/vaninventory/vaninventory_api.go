package vaninventory

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"vansales.GO/api"
	"vansales.GO/core/apperr"
	"vansales.GO/core/auth"
	batchRepo "vansales.GO/model/repository/batch"
	vanService "vansales.GO/service/vaninventory"
)

func init() {
	api.RegisterModule(RegisterVanInventoryRoutes)
}

func RegisterVanInventoryRoutes(apiGroup *echo.Group, db *gorm.DB) {
	svc := vanService.NewService(db)
	g := apiGroup.Group("/van-inventory")

	// POST /api/van-inventory – create or update a load/unload document
	g.POST("", func(c echo.Context) error {
		var in vanService.Input
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload: " + err.Error()})
		}
		if err := c.Validate(&in); err != nil {
			return err
		}

		header, created, err := svc.CreateOrUpdate(c.Request().Context(), &in, auth.ActorID(c, in.UserID))
		if err != nil {
			return businessError(c, err)
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return c.JSON(status, echo.Map{"data": header})
	})

	// GET /api/van-inventory/:productId/available-batches?loading_type=L
	g.GET("/:productId/available-batches", func(c echo.Context) error {
		productID, err := pathID(c, "productId")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
		}
		rows, err := svc.AvailableBatches(productID, c.QueryParam("loading_type"))
		if err != nil {
			return businessError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"data": rows})
	})

	// GET /api/van-inventory/available-batches?product_ids=1,2,3&loading_type=L
	g.GET("/available-batches", func(c echo.Context) error {
		ids, err := idList(c.QueryParam("product_ids"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "product_ids must be a comma-separated list of ids"})
		}
		byProduct, err := svc.AvailableBatchesBulk(ids, c.QueryParam("loading_type"))
		if err != nil {
			return businessError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"data": byProduct})
	})

	// GET /api/van-inventory/products/:productId/batches?include_expired=true&sort_by=created_date
	g.GET("/products/:productId/batches", func(c echo.Context) error {
		productID, err := pathID(c, "productId")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
		}
		rows, stats, err := svc.ProductBatches(productID, batchRepo.ProductBatchListOptions{
			IncludeExpired: c.QueryParam("include_expired") == "true",
			SortBy:         c.QueryParam("sort_by"),
		})
		if err != nil {
			return businessError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"data": rows, "stats": stats})
	})

	// GET /api/van-inventory/users/:userId/items – current van contents
	g.GET("/users/:userId/items", func(c echo.Context) error {
		userID, err := pathID(c, "userId")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
		}
		items, err := svc.VanContents(userID)
		if err != nil {
			return businessError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"data": items})
	})

	// DELETE /api/van-inventory/:id – admin delete of a whole document
	g.DELETE("/:id", func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
		}
		if err := svc.Delete(c.Request().Context(), id); err != nil {
			return businessError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"deleted": id})
	})
}

// idList parses a comma-separated list of ids; empty input is a caller error.
func idList(raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, echo.ErrBadRequest
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil || n == 0 {
			return nil, echo.ErrBadRequest
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

func pathID(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		return 0, echo.ErrBadRequest
	}
	return uint(n), nil
}

// businessError maps a known business error kind to 400 with the message the
// service produced; everything else is a 500 with the detail kept out of the
// response body.
func businessError(c echo.Context, err error) error {
	if apperr.IsClient(err) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}
