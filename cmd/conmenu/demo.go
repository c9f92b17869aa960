package main

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/dshills/conmenu/internal/menu"
)

// demoArraySize is the length of generated arrays.
const demoArraySize = 2000

// sorter sorts a slice in place.
type sorter struct {
	name string
	sort func([]int)
}

var sorters = []sorter{
	{"quick sort", func(a []int) { slices.Sort(a) }},
	{"merge sort", mergeSort},
	{"selection sort", selectionSort},
	{"insertion sort", insertionSort},
	{"bubble sort", bubbleSort},
}

// demo is the built-in menu tree: array sorting with timings, display
// settings and exit.
type demo struct {
	ctx  *menu.Context
	rng  *rand.Rand
	data []int
	err  error
}

func newDemo(ctx *menu.Context) *demo {
	return &demo{
		ctx: ctx,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// run enters the main menu and returns when it is destroyed.
func (d *demo) run() error {
	if err := d.ctx.EnableMenu(d.mainMenu()); err != nil {
		return err
	}
	return d.err
}

// newMenu creates a menu with the given header and items.
func (d *demo) newMenu(header string, items ...*menu.Item) *menu.Menu {
	m := d.ctx.CreateMenu()
	d.ctx.ChangeHeader(m, header)
	for _, it := range items {
		d.ctx.AddOption(m, it)
	}
	return m
}

// enter runs m from inside a callback and records the first error.
func (d *demo) enter(m *menu.Menu) {
	if err := d.ctx.EnableMenu(m); err != nil && d.err == nil {
		d.err = err
		d.ctx.ClearMenus()
	}
}

func (d *demo) goBack() *menu.Item {
	return d.ctx.CreateItem("Go back", func(m *menu.Menu, _ any) {
		d.ctx.ClearMenu(m)
	}, nil)
}

func (d *demo) mainMenu() *menu.Menu {
	c := d.ctx
	return d.newMenu("MAIN MENU",
		c.CreateItem("Sort array", func(*menu.Menu, any) { d.enter(d.arrayMenu()) }, nil),
		c.CreateItem("Display settings", func(*menu.Menu, any) { d.enter(d.settingsMenu()) }, nil),
		c.CreateItem("Exit the program", func(*menu.Menu, any) { c.ClearMenusAndExit() }, nil),
	)
}

func (d *demo) arrayMenu() *menu.Menu {
	c := d.ctx
	m := d.newMenu("Array control panel",
		c.CreateItem("Generate random array", func(m *menu.Menu, _ any) {
			d.generate(demoArraySize)
			c.ChangeFooter(m, fmt.Sprintf("Generated %d numbers", len(d.data)))
		}, nil),
		c.CreateItem("Choose sort method", func(*menu.Menu, any) { d.enter(d.sortMenu()) }, nil),
		d.goBack(),
	)
	return m
}

func (d *demo) sortMenu() *menu.Menu {
	c := d.ctx
	items := make([]*menu.Item, 0, len(sorters)+1)
	for i := range sorters {
		items = append(items, c.CreateItem("Use "+sorters[i].name, d.sortCallback, &sorters[i]))
	}
	items = append(items, d.goBack())
	return d.newMenu("SORT METHODS", items...)
}

// sortCallback sorts a copy of the array and reports the elapsed time in
// the footer.
func (d *demo) sortCallback(m *menu.Menu, data any) {
	s := data.(*sorter)
	if len(d.data) == 0 {
		d.ctx.ChangeFooter(m, "Generate an array first")
		return
	}
	c := d.ctx
	work := slices.Clone(d.data)
	start := menu.Tick()
	s.sort(work)
	elapsed := menu.Tick() - start

	if !slices.IsSorted(work) {
		c.ChangeFooter(m, s.name+" failed")
		return
	}
	c.ChangeFooter(m, fmt.Sprintf("%s: %d numbers in %.3f ms", s.name, len(work), elapsed))
}

func (d *demo) settingsMenu() *menu.Menu {
	c := d.ctx
	toggle := func(text string, apply func(*menu.Settings)) *menu.Item {
		return c.CreateItem(text, func(m *menu.Menu, _ any) {
			s := m.Settings()
			apply(&s)
			c.SetMenuSettings(m, s)
			c.SetDefaultSettings(s)
		}, nil)
	}
	return d.newMenu("Display settings",
		toggle("Toggle mouse", func(s *menu.Settings) { s.Mouse = !s.Mouse }),
		toggle("Toggle double width", func(s *menu.Settings) { s.DoubleWidth = !s.DoubleWidth }),
		toggle("Toggle footer", func(s *menu.Settings) { s.Footer = !s.Footer }),
		toggle("Toggle legacy painter", func(s *menu.Settings) { s.ForceLegacy = !s.ForceLegacy }),
		d.goBack(),
	)
}

// generate replaces the array with n random values.
func (d *demo) generate(n int) {
	d.data = make([]int, n)
	for i := range d.data {
		d.data[i] = d.rng.IntN(10 * n)
	}
}

func mergeSort(a []int) {
	if len(a) < 2 {
		return
	}
	mid := len(a) / 2
	left := slices.Clone(a[:mid])
	right := slices.Clone(a[mid:])
	mergeSort(left)
	mergeSort(right)

	i, j := 0, 0
	for k := range a {
		if j >= len(right) || (i < len(left) && left[i] <= right[j]) {
			a[k] = left[i]
			i++
		} else {
			a[k] = right[j]
			j++
		}
	}
}

func selectionSort(a []int) {
	for i := range a {
		lo := i
		for j := i + 1; j < len(a); j++ {
			if a[j] < a[lo] {
				lo = j
			}
		}
		a[i], a[lo] = a[lo], a[i]
	}
}

func insertionSort(a []int) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for ; j >= 0 && a[j] > v; j-- {
			a[j+1] = a[j]
		}
		a[j+1] = v
	}
}

func bubbleSort(a []int) {
	for n := len(a); n > 1; n-- {
		swapped := false
		for i := 1; i < n; i++ {
			if a[i-1] > a[i] {
				a[i-1], a[i] = a[i], a[i-1]
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}
