package commerce

import (
	"context"
	"fmt"
	"sync"

	"github.com/OratileK/StreamBox/app/models"
)

// fakeRepository is an in-memory catalog store. Entitlement allocation is a
// mutex-guarded set insert, mirroring the unique-key semantics of the real
// table.
type fakeRepository struct {
	mu           sync.Mutex
	products     map[uint]*models.Product
	prices       map[uint]*models.Price
	entitlements map[[2]uint]bool
	orders       map[string]*models.Order

	allocateCalls int
	allocateErr   error
	orderWrites   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		products:     make(map[uint]*models.Product),
		prices:       make(map[uint]*models.Price),
		entitlements: make(map[[2]uint]bool),
		orders:       make(map[string]*models.Order),
	}
}

func (r *fakeRepository) addProduct(p *models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *fakeRepository) addPrice(p *models.Price) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prices[p.ID] = p
}

func (r *fakeRepository) entitlementSet(userID uint) []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint
	for key := range r.entitlements {
		if key[0] == userID {
			out = append(out, key[1])
		}
	}
	return out
}

func (r *fakeRepository) GetProductWithPrices(id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	cp := *product
	cp.Prices = nil
	for _, price := range r.prices {
		if price.ProductID == id {
			cp.Prices = append(cp.Prices, *price)
		}
	}
	return &cp, nil
}

func (r *fakeRepository) SaveProductProviderReference(productID uint, reference string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	product.ProviderReference = reference
	return nil
}

func (r *fakeRepository) SavePriceProviderBinding(priceID uint, reference, termsHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	price, ok := r.prices[priceID]
	if !ok {
		return fmt.Errorf("%w: price %d", ErrNotFound, priceID)
	}
	price.ProviderReference = reference
	price.ProviderTermsHash = termsHash
	return nil
}

func (r *fakeRepository) GetPriceByProviderReference(reference string) (*models.Price, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, price := range r.prices {
		if price.ProviderReference == reference {
			cp := *price
			if product, ok := r.products[price.ProductID]; ok {
				pc := *product
				cp.Product = &pc
			}
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: no local price for provider reference %s", ErrNotFound, reference)
}

func (r *fakeRepository) AllocateEntitlement(userID, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocateCalls++
	if r.allocateErr != nil {
		return r.allocateErr
	}
	r.entitlements[[2]uint{userID, productID}] = true
	return nil
}

func (r *fakeRepository) MarkOrderPaid(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orderWrites++
	cp := *order
	r.orders[order.SessionID] = &cp
	return nil
}

// fakeGateway is an in-memory payment provider. Created objects get
// sequential references; sessions start unpaid until completeSession is
// called, imitating the buyer finishing the hosted flow.
type fakeGateway struct {
	mu        sync.Mutex
	products  map[string]*ProviderProduct
	prices    map[string]*ProviderPrice
	customers map[string]*ProviderCustomer
	sessions  map[string]*ProviderSession

	productSeq  int
	priceSeq    int
	customerSeq int
	sessionSeq  int

	lastSessionID string

	productUpdates int
	priceUpdates   int
	priceCreates   int

	createPriceErr error
	updatePriceErr error
	getSessionErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products:  make(map[string]*ProviderProduct),
		prices:    make(map[string]*ProviderPrice),
		customers: make(map[string]*ProviderCustomer),
		sessions:  make(map[string]*ProviderSession),
	}
}

func (g *fakeGateway) completeSession(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if session, ok := g.sessions[id]; ok {
		session.PaymentStatus = PaymentStatusPaid
	}
}

func (g *fakeGateway) addSession(session *ProviderSession) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[session.ID] = session
}

func (g *fakeGateway) CreateProduct(ctx context.Context, params ProviderProductParams) (*ProviderProduct, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.productSeq++
	product := &ProviderProduct{
		Reference:   fmt.Sprintf("prod_%d", g.productSeq),
		Name:        params.Name,
		Description: params.Description,
		Active:      params.Active,
	}
	g.products[product.Reference] = product
	return product, nil
}

func (g *fakeGateway) UpdateProduct(ctx context.Context, reference string, params ProviderProductParams) (*ProviderProduct, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	product, ok := g.products[reference]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, reference)
	}
	g.productUpdates++
	product.Name = params.Name
	product.Description = params.Description
	product.Active = params.Active
	return product, nil
}

func (g *fakeGateway) CreatePrice(ctx context.Context, params ProviderPriceParams) (*ProviderPrice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createPriceErr != nil {
		return nil, g.createPriceErr
	}
	g.priceSeq++
	g.priceCreates++
	price := &ProviderPrice{
		Reference:        fmt.Sprintf("price_%d", g.priceSeq),
		ProductReference: params.ProductReference,
		Currency:         params.Currency,
		UnitAmount:       params.UnitAmount,
		Interval:         params.Interval,
		IntervalCount:    params.IntervalCount,
		Nickname:         params.Nickname,
		Active:           params.Active,
		Recurring:        params.Interval != "",
	}
	g.prices[price.Reference] = price
	return price, nil
}

func (g *fakeGateway) UpdatePrice(ctx context.Context, reference string, params PriceMetadataParams) (*ProviderPrice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updatePriceErr != nil {
		return nil, g.updatePriceErr
	}
	price, ok := g.prices[reference]
	if !ok {
		return nil, fmt.Errorf("%w: price %s", ErrNotFound, reference)
	}
	g.priceUpdates++
	price.Nickname = params.Nickname
	price.Active = params.Active
	return price, nil
}

func (g *fakeGateway) GetPrice(ctx context.Context, reference string) (*ProviderPrice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	price, ok := g.prices[reference]
	if !ok {
		return nil, fmt.Errorf("%w: price %s", ErrNotFound, reference)
	}
	cp := *price
	return &cp, nil
}

func (g *fakeGateway) FindCustomerByEmail(ctx context.Context, email string) (*ProviderCustomer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if customer, ok := g.customers[email]; ok {
		return customer, nil
	}
	return nil, fmt.Errorf("%w: no customer for %s", ErrNotFound, email)
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, email, name string) (*ProviderCustomer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.customerSeq++
	customer := &ProviderCustomer{
		ID:    fmt.Sprintf("cus_%d", g.customerSeq),
		Email: email,
		Name:  name,
	}
	g.customers[email] = customer
	return customer, nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*ProviderSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	price, ok := g.prices[params.PriceReference]
	if !ok {
		return nil, fmt.Errorf("%w: price %s", ErrNotFound, params.PriceReference)
	}
	g.sessionSeq++
	session := &ProviderSession{
		ID:            fmt.Sprintf("cs_%d", g.sessionSeq),
		PaymentStatus: PaymentStatusUnpaid,
		Metadata:      params.Metadata.Encode(),
		AmountTotal:   price.UnitAmount,
		Currency:      price.Currency,
	}
	session.URL = "https://pay.example.test/c/" + session.ID
	g.sessions[session.ID] = session
	g.lastSessionID = session.ID
	return session, nil
}

func (g *fakeGateway) GetCheckoutSession(ctx context.Context, id string) (*ProviderSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getSessionErr != nil {
		return nil, g.getSessionErr
	}
	session, ok := g.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}
	cp := *session
	return &cp, nil
}
