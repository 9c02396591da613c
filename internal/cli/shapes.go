package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/shapes"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newShapesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "Keep a catalog of shapes and compare areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				st, err := openStore[types.ShapeRecord](s, types.CollectionShapes)
				if err != nil {
					return err
				}
				c, err := shapes.New(st, s.log)
				if err != nil {
					return sysErrorf("%w", err)
				}
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				return shapesMenu(c).run(p)
			})
		},
	}
}

func askShape(p *prompter) (types.Shape, error) {
	kind, err := p.ask("Shape (rectangle/circle/triangle): ")
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(kind) {
	case types.ShapeRectangle:
		w, err := p.askFloat("Width: ")
		if err != nil {
			return nil, err
		}
		h, err := p.askFloat("Height: ")
		if err != nil {
			return nil, err
		}
		return types.NewRectangle(w, h)
	case types.ShapeCircle:
		r, err := p.askFloat("Radius: ")
		if err != nil {
			return nil, err
		}
		return types.NewCircle(r)
	case types.ShapeTriangle:
		var sides [3]float64
		for i, label := range []string{"Side a: ", "Side b: ", "Side c: "} {
			if sides[i], err = p.askFloat(label); err != nil {
				return nil, err
			}
		}
		return types.NewTriangle(sides[0], sides[1], sides[2])
	}
	return nil, &types.FieldError{Field: "kind", Reason: "must be rectangle, circle or triangle"}
}

func printShape(p *prompter, r types.ShapeRecord) {
	p.printf("%s  %s  area=%.2f perimeter=%.2f\n", r.ID, r.Shape, r.Shape.Area(), r.Shape.Perimeter())
}

func shapesMenu(c *shapes.Catalog) *menu {
	return &menu{
		title: "Shapes",
		save:  c.Save,
		items: []menuItem{
			{"Add shape", func(p *prompter) error {
				s, err := askShape(p)
				if err != nil {
					return err
				}
				r, err := c.Add(s)
				if err != nil {
					return err
				}
				printShape(p, r)
				return nil
			}},
			{"List shapes", func(p *prompter) error {
				all := c.All()
				if len(all) == 0 {
					p.println("No shapes.")
				}
				for _, r := range all {
					printShape(p, r)
				}
				return nil
			}},
			{"List by area", func(p *prompter) error {
				for _, r := range c.Sorted() {
					printShape(p, r)
				}
				p.printf("Total area: %.2f\n", c.TotalArea())
				return nil
			}},
			{"Remove shape", func(p *prompter) error {
				id, err := p.ask("Shape ID: ")
				if err != nil {
					return err
				}
				if _, err := c.Remove(id); err != nil {
					return err
				}
				p.println("Shape removed.")
				return nil
			}},
		},
	}
}
