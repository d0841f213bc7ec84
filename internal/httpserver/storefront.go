package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitrine-storefront/internal/cart"
	"vitrine-storefront/internal/domain"
)

type productView struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Price  string         `json:"price"`
	Images []domain.Image `json:"images,omitempty"`
	Sizes  []string       `json:"sizes,omitempty"`
}

type cartItemView struct {
	Key       string `json:"key"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type cartView struct {
	Items      []cartItemView `json:"items"`
	Total      string         `json:"total"`
	TotalItems int            `json:"total_items"`
}

type catalogView struct {
	Token    string        `json:"token"`
	Title    string        `json:"title"`
	Products []productView `json:"products"`
	Cart     cartView      `json:"cart"`
}

type variantView struct {
	Open      bool   `json:"open"`
	ProductID int64  `json:"product_id,omitempty"`
	Size      string `json:"size,omitempty"`
	NeedsSize bool   `json:"needs_size"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price.StringFixed(2),
		Images: p.Images,
		Sizes:  p.Sizes,
	}
}

func toCartView(items []cart.Item, totals cart.Totals) cartView {
	views := make([]cartItemView, 0, len(items))
	for _, item := range items {
		views = append(views, cartItemView{
			Key:       string(item.Key),
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price.StringFixed(2),
			LineTotal: item.LineTotal().StringFixed(2),
		})
	}
	return cartView{
		Items:      views,
		Total:      totals.Sum.StringFixed(2),
		TotalItems: totals.ItemCount,
	}
}

func toVariantView(s *session) variantView {
	view := variantView{
		Open:      s.flow.IsOpen(),
		Size:      s.flow.Size(),
		NeedsSize: s.flow.NeedsSize(),
	}
	if p, ok := s.flow.Product(); ok {
		view.ProductID = p.ID
	}
	return view
}

// withSession resolves the session for the token path param and runs fn under
// its lock.
func (reg *registry) withSession(c *gin.Context, fn func(s *session)) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Link inválido"})
		return
	}
	s, err := reg.get(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vitrine não encontrada"})
			return
		}
		reg.logger.WithError(err).WithField("token", token).Error("load catalog session")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erro ao carregar a vitrine"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (reg *registry) getCatalog(c *gin.Context) {
	reg.withSession(c, func(s *session) {
		products := make([]productView, 0, len(s.snapshot.Products()))
		for _, p := range s.snapshot.Products() {
			products = append(products, toProductView(p))
		}
		c.JSON(http.StatusOK, catalogView{
			Token:    s.snapshot.Token(),
			Title:    s.snapshot.Title(),
			Products: products,
			Cart:     toCartView(s.store.Items(), s.store.Totals()),
		})
	})
}

func (reg *registry) getCart(c *gin.Context) {
	reg.withSession(c, func(s *session) {
		c.JSON(http.StatusOK, toCartView(s.store.Items(), s.store.Totals()))
	})
}

type addItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Size      string `json:"size"`
}

func (reg *registry) addItem(c *gin.Context) {
	var in addItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	reg.withSession(c, func(s *session) {
		product, ok := s.snapshot.Product(in.ProductID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produto não encontrado"})
			return
		}
		if err := s.store.Add(c.Request.Context(), product, in.Size); err != nil {
			if errors.Is(err, domain.ErrVariantRequired) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Escolha um tamanho"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao adicionar"})
			return
		}
		c.JSON(http.StatusOK, toCartView(s.store.Items(), s.store.Totals()))
	})
}

func (reg *registry) incrementItem(c *gin.Context) {
	key := domain.CartKey(c.Param("key"))
	reg.withSession(c, func(s *session) {
		s.store.Increment(c.Request.Context(), key)
		c.JSON(http.StatusOK, toCartView(s.store.Items(), s.store.Totals()))
	})
}

func (reg *registry) decrementItem(c *gin.Context) {
	key := domain.CartKey(c.Param("key"))
	reg.withSession(c, func(s *session) {
		s.store.Decrement(c.Request.Context(), key)
		c.JSON(http.StatusOK, toCartView(s.store.Items(), s.store.Totals()))
	})
}

type openVariantRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

func (reg *registry) openVariant(c *gin.Context) {
	var in openVariantRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	reg.withSession(c, func(s *session) {
		product, ok := s.snapshot.Product(in.ProductID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produto não encontrado"})
			return
		}
		s.flow.Open(product)
		c.JSON(http.StatusOK, toVariantView(s))
	})
}

type pickSizeRequest struct {
	Size string `json:"size" binding:"required"`
}

func (reg *registry) pickVariantSize(c *gin.Context) {
	var in pickSizeRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	reg.withSession(c, func(s *session) {
		s.flow.Pick(in.Size)
		c.JSON(http.StatusOK, toVariantView(s))
	})
}

func (reg *registry) confirmVariant(c *gin.Context) {
	reg.withSession(c, func(s *session) {
		if err := s.flow.Confirm(c.Request.Context(), s.store); err != nil {
			if errors.Is(err, domain.ErrVariantRequired) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "Escolha um tamanho",
					"variant": toVariantView(s),
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao adicionar"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"variant": toVariantView(s),
			"cart":    toCartView(s.store.Items(), s.store.Totals()),
		})
	})
}

func (reg *registry) cancelVariant(c *gin.Context) {
	reg.withSession(c, func(s *session) {
		s.flow.Cancel()
		c.JSON(http.StatusOK, toVariantView(s))
	})
}

type checkoutResponse struct {
	OrderToken string `json:"order_token"`
	Reference  string `json:"reference"`
	Total      string `json:"total"`
	Message    string `json:"message"`
	Link       string `json:"link"`
}

// submitCheckout resolves the session without taking its lock: the store and
// coordinator synchronize themselves, and the cart must stay mutable while a
// submission is pending.
func (reg *registry) submitCheckout(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Link inválido"})
		return
	}
	s, err := reg.get(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vitrine não encontrada"})
			return
		}
		reg.logger.WithError(err).WithField("token", token).Error("load catalog session")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erro ao carregar a vitrine"})
		return
	}

	result, err := s.checkout.Submit(c.Request.Context(), s.snapshot.Title(), s.snapshot.Merchant().WhatsAppPhone)
	if err != nil {
		writeCheckoutError(c, err, reg, s)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{
		OrderToken: result.OrderToken,
		Reference:  result.Reference,
		Total:      result.Total,
		Message:    result.Message,
		Link:       result.Link,
	})
}

func writeCheckoutError(c *gin.Context, err error, reg *registry, s *session) {
	var conflict *domain.StockConflictError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Carrinho vazio"})
	case errors.Is(err, domain.ErrMissingContact):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Vitrine sem contato configurado"})
	case errors.Is(err, domain.ErrCheckoutInFlight):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Pedido em andamento, aguarde"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Estoque insuficiente: " + conflict.Message})
	default:
		reg.logger.WithError(err).WithField("token", s.snapshot.Token()).Warn("checkout failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Não foi possível enviar o pedido. Tente novamente."})
	}
}
