package services

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Person is a synthesized client identity
type Person struct {
	FirstName string
	LastName  string
	BirthDate time.Time
	Gender    string
}

// Placeholders supplies every synthesized value written when a receipt lacks
// the real data. Deployments that must not invent data inject their own.
type Placeholders interface {
	Person(now time.Time) Person
	CategoryLabel() string
	TimeOfDay() time.Duration
	InvoiceSuffix() int
	CardSuffix() int
	ProductReference() string
	OCRConfidence() float64
}

var (
	firstNames     = []string{"Jean", "Marie", "Pierre", "Sophie", "Thomas", "Julie"}
	lastNames      = []string{"Dupont", "Martin", "Bernard", "Petit", "Robert"}
	categoryLabels = []string{"Alimentation", "Boissons", "Produits ménagers", "Soins personnels", "Vêtements", "Électronique", "Divers"}
)

type randomPlaceholders struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPlaceholders returns the demo generator. A zero seed picks a
// random one.
func NewRandomPlaceholders(seed uint64) Placeholders {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &randomPlaceholders{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *randomPlaceholders) intN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.IntN(n)
}

func (p *randomPlaceholders) Person(now time.Time) Person {
	age := 18 + p.intN(53) // 18..70
	gender := "M"
	if p.intN(2) == 1 {
		gender = "F"
	}
	birth := time.Date(now.Year()-age, time.Month(1+p.intN(12)), 1+p.intN(28), 0, 0, 0, 0, time.UTC)
	return Person{
		FirstName: firstNames[p.intN(len(firstNames))],
		LastName:  lastNames[p.intN(len(lastNames))],
		BirthDate: birth,
		Gender:    gender,
	}
}

func (p *randomPlaceholders) CategoryLabel() string {
	return categoryLabels[p.intN(len(categoryLabels))]
}

// TimeOfDay falls between 08:00:00 and 20:59:59.
func (p *randomPlaceholders) TimeOfDay() time.Duration {
	return time.Duration(8+p.intN(13))*time.Hour +
		time.Duration(p.intN(60))*time.Minute +
		time.Duration(p.intN(60))*time.Second
}

func (p *randomPlaceholders) InvoiceSuffix() int {
	return 1000 + p.intN(9000)
}

func (p *randomPlaceholders) CardSuffix() int {
	return 10000 + p.intN(90000)
}

func (p *randomPlaceholders) ProductReference() string {
	return fmt.Sprintf("PROD-%05d", 10000+p.intN(90000))
}

// OCRConfidence falls in [0.75, 0.98].
func (p *randomPlaceholders) OCRConfidence() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return 0.75 + p.rnd.Float64()*0.23
}
