package models

import "time"

// Money is an amount in the minor currency unit.
type Money = int64

type User struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
	Password string `bson:"password" json:"-"`
	Role     string `bson:"role" json:"role"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Offer is a promotional override. A nil *Offer on a Product means no offer.
type Offer struct {
	Name  string `bson:"name" json:"name"`
	Price Money  `bson:"price" json:"price"`
}

type Product struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description"`
	Image         string    `bson:"image" json:"image"`
	BasePrice     Money     `bson:"basePrice" json:"basePrice"`
	OriginalPrice Money     `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Offer         *Offer    `bson:"offer,omitempty" json:"offer,omitempty"`
	Stock         int       `bson:"stock" json:"stock"`
	CategoryID    string    `bson:"categoryId" json:"categoryId"`
	Occasions     []string  `bson:"occasions" json:"occasions"`
	Badge         string    `bson:"badge,omitempty" json:"badge,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p *Product) HasOffer() bool {
	return p.Offer != nil
}

// HasOccasion reports whether the product is tagged with any of the given occasions.
func (p *Product) HasOccasion(occasions ...string) bool {
	for _, want := range occasions {
		for _, have := range p.Occasions {
			if have == want {
				return true
			}
		}
	}
	return false
}

type Category struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Name     string `bson:"name" json:"name"`
	IsActive bool   `bson:"isActive" json:"isActive"`
}

// CartEntry holds the unit price captured when the item was added. It is
// never recomputed from the live product.
type CartEntry struct {
	ProductID   string    `bson:"productId" json:"productId"`
	DisplayName string    `bson:"displayName" json:"displayName"`
	UnitPrice   Money     `bson:"unitPrice" json:"unitPrice"`
	Image       string    `bson:"image" json:"image"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	AddedAt     time.Time `bson:"addedAt" json:"addedAt"`
}

type WishlistEntry struct {
	ProductID   string    `bson:"productId" json:"productId"`
	DisplayName string    `bson:"displayName" json:"displayName"`
	UnitPrice   Money     `bson:"unitPrice" json:"unitPrice"`
	Image       string    `bson:"image" json:"image"`
	AddedAt     time.Time `bson:"addedAt" json:"addedAt"`
}

type OrderLine struct {
	ProductID string `bson:"productId" json:"productId"`
	Name      string `bson:"name" json:"name"`
	UnitPrice Money  `bson:"unitPrice" json:"unitPrice"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	Image     string `bson:"image" json:"image"`
}

func (l OrderLine) Amount() Money {
	return l.UnitPrice * Money(l.Quantity)
}

type Contact struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type Address struct {
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	Region     string `bson:"region,omitempty" json:"region,omitempty"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
}

type Order struct {
	ID              string        `bson:"_id" json:"id"`
	UserID          string        `bson:"userId" json:"userId"`
	Lines           []OrderLine   `bson:"lines" json:"lines"`
	Subtotal        Money         `bson:"subtotal" json:"subtotal"`
	ShippingFee     Money         `bson:"shippingFee" json:"shippingFee"`
	Total           Money         `bson:"total" json:"total"`
	Status          OrderStatus   `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	Contact         Contact       `bson:"contact" json:"contact"`
	ShippingAddress Address       `bson:"shippingAddress" json:"shippingAddress"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}
