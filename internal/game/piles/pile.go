package piles

import "github.com/arjun115/freecell/internal/game/cards"

// Pile is an ordered run of cards, bottom first. Index len-1 is the top.
type Pile []*cards.Card

// Len returns the number of cards.
func (p *Pile) Len() int {
	return len(*p)
}

// Top returns the top card or nil when empty.
func (p *Pile) Top() *cards.Card {
	if len(*p) == 0 {
		return nil
	}
	return (*p)[len(*p)-1]
}

// Push places cards on top in the given order.
func (p *Pile) Push(cs ...*cards.Card) {
	*p = append(*p, cs...)
}

// Pop removes the top card. Returns nil when empty.
func (p *Pile) Pop() *cards.Card {
	if len(*p) == 0 {
		return nil
	}
	top := (*p)[len(*p)-1]
	(*p)[len(*p)-1] = nil
	*p = (*p)[:len(*p)-1]
	return top
}

// Unshift places a card at the bottom.
func (p *Pile) Unshift(c *cards.Card) {
	*p = append(Pile{c}, *p...)
}

// IndexOf returns the index of the card with the given id, or -1.
func (p *Pile) IndexOf(id cards.CardID) int {
	for i, c := range *p {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// SplitFrom removes and returns cards [index..top]. Returns nil if index is
// out of range.
func (p *Pile) SplitFrom(index int) []*cards.Card {
	if index < 0 || index >= len(*p) {
		return nil
	}
	pulled := make([]*cards.Card, len(*p)-index)
	copy(pulled, (*p)[index:])
	*p = (*p)[:index]
	return pulled
}

// TakeTail removes the top n cards keeping their order. Returns nil if the
// pile holds fewer than n cards.
func (p *Pile) TakeTail(n int) []*cards.Card {
	if n <= 0 || n > len(*p) {
		return nil
	}
	return p.SplitFrom(len(*p) - n)
}

// RemoveID removes the card with the given id wherever it sits.
func (p *Pile) RemoveID(id cards.CardID) *cards.Card {
	idx := p.IndexOf(id)
	if idx < 0 {
		return nil
	}
	c := (*p)[idx]
	*p = append((*p)[:idx], (*p)[idx+1:]...)
	return c
}

// Values copies the cards out of the pile.
func (p *Pile) Values() []cards.Card {
	out := make([]cards.Card, len(*p))
	for i, c := range *p {
		out[i] = *c
	}
	return out
}
