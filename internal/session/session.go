// Package session keeps the state of one editing session: the base image, the
// ordered filters built for it and the last image that rendered successfully.
package session

import (
	"fmt"
	"image"
	"slices"

	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/ds124wfegd/media-editor/internal/filter"
	"github.com/sirupsen/logrus"
)

// routes lists the filters a category is offered to. Each filter keeps only the
// keys it recognizes.
//
// Routing goes by the category a customization carries, not by Filter.Category:
// the adjustment filter reports Filters but is fed only by Adjustments, so a
// brightness value tagged Filters is dropped. Routing Filters to it as well
// would let a None from the filter picker mark adjustments empty.
var routes = map[entity.Category][]filter.Kind{
	entity.CategoryFilters:         {filter.KindColor, filter.KindEffects},
	entity.CategoryAdjustments:     {filter.KindAdjustment},
	entity.CategoryStickers:        {filter.KindSticker},
	entity.CategoryWeatherStickers: {filter.KindSticker},
}

func DefaultOrder() []filter.Kind {
	return []filter.Kind{filter.KindAdjustment, filter.KindColor, filter.KindEffects, filter.KindSticker}
}

// Session is owned by a single caller and is not safe for concurrent use.
type Session struct {
	backend backend.Backend
	order   []filter.Kind
	base    image.Image
	filters []filter.Filter
	history []entity.Customization
	last    image.Image
}

func New(b backend.Backend, base image.Image, order []filter.Kind, initial ...entity.Customization) (*Session, error) {
	if len(order) == 0 {
		order = DefaultOrder()
	}
	seen := make(map[filter.Kind]bool, len(order))
	for _, k := range order {
		if seen[k] {
			return nil, fmt.Errorf("filter kind %s listed twice in order", k)
		}
		seen[k] = true
	}

	s := &Session{
		backend: b,
		order:   append([]filter.Kind(nil), order...),
	}
	s.rebuild(base, initial)
	return s, nil
}

func (s *Session) rebuild(base image.Image, initial []entity.Customization) {
	s.base = base
	s.filters = nil
	s.history = nil
	s.last = nil
	s.Apply(initial...)
}

// Apply hands each customization to every filter its category routes to. A
// filter is created by the first customization relevant to it; kinds that
// never received one take no part in rendering.
func (s *Session) Apply(cs ...entity.Customization) {
	for _, c := range cs {
		s.history = append(s.history, c)
		for _, kind := range routes[c.Category] {
			if f, ok := s.Filter(kind); ok {
				f.Ingest(c)
				continue
			}
			if !slices.Contains(s.order, kind) || !filter.Relevant(kind, c) {
				continue
			}
			f, err := filter.New(kind, s.backend, c)
			if err != nil {
				logrus.WithError(err).Error("filter construction failed")
				continue
			}
			s.insert(f)
		}
	}
}

// insert keeps s.filters sorted by the configured order.
func (s *Session) insert(f filter.Filter) {
	pos := slices.Index(s.order, f.Kind())
	i := 0
	for i < len(s.filters) && slices.Index(s.order, s.filters[i].Kind()) < pos {
		i++
	}
	s.filters = slices.Insert(s.filters, i, f)
}

// Render runs the pipeline over the base image. The result is remembered only on
// success; after a failure LastRendered still returns the previous good image.
func (s *Session) Render() (image.Image, error) {
	out, err := filter.RenderAll(s.filters, s.base)
	if err != nil {
		logrus.WithError(err).Warn("session render failed, keeping last rendered image")
		return nil, err
	}
	s.last = out
	return out, nil
}

func (s *Session) LastRendered() image.Image { return s.last }

func (s *Session) Base() image.Image { return s.base }

// Reset discards every filter and starts over on base. This is the only way a
// filter leaves the empty state.
func (s *Session) Reset(base image.Image) {
	s.rebuild(base, nil)
}

func (s *Session) Filters() []filter.Filter {
	return append([]filter.Filter(nil), s.filters...)
}

func (s *Session) Filter(kind filter.Kind) (filter.Filter, bool) {
	for _, f := range s.filters {
		if f.Kind() == kind {
			return f, true
		}
	}
	return nil, false
}

func (s *Session) History() []entity.Customization {
	return append([]entity.Customization(nil), s.history...)
}
