package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// ── sku ───────────────────────────────────────────────────────────────────────

// parsePair separa "clave=valor".
func parsePair(raw string) (dto.AttributeRequest, error) {
	key, value, ok := strings.Cut(raw, "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return dto.AttributeRequest{}, domain.NewValidationError("attribute", "use clave=valor")
	}
	return dto.AttributeRequest{Key: key, Value: value}, nil
}

func attributeRows(attrs []dto.AttributeResponse) [][]string {
	rows := make([][]string, 0, len(attrs))
	for _, a := range attrs {
		rows = append(rows, []string{a.Key, a.Value})
	}
	return rows
}

func newSkuCommand(deps Deps, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "sku", Short: "Catálogo de SKUs, códigos de barras y atributos"}
	var entityFlag string
	cmd.PersistentFlags().StringVarP(&entityFlag, "entity", "e", "", "entidad dueña (id o nombre)")

	var upc, description string
	var container int64
	create := &cobra.Command{
		Use:   "create <sku>",
		Short: "Crear un SKU bajo --entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := dto.CreateSkuRequest{Sku: args[0], UPC: upc, Description: description, Entity: entityFlag}
			if cmd.Flags().Changed("container") {
				in.ContainerID = &container
			}
			s, err := deps.Skus.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("SKU %q creado (id %d)", s.Sku, s.ID)
			return p.value(s)
		},
	}
	create.Flags().StringVar(&upc, "upc", "", "código de barras (único)")
	create.Flags().StringVarP(&description, "description", "d", "", "descripción")
	create.Flags().Int64Var(&container, "container", 0, "id del empaque")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Listar SKUs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := deps.Skus.List(cmd.Context(), entity.ParseOptionalIdentifier(entityFlag))
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				rows = append(rows, []string{itoa(s.ID), s.Sku, s.UPC, s.Description})
			}
			p := out(cmd)
			p.table([]string{"ID", "SKU", "UPC", "DESCRIPCIÓN"}, rows)
			return p.value(list)
		},
	})

	var byUPC bool
	show := &cobra.Command{
		Use:   "show <sku>",
		Short: "Mostrar un SKU con atributos y existencias (acepta también un UPC con --upc)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := dto.SkuRef(args[0], entityFlag)
			if byUPC {
				s, err := deps.Skus.FindByUPC(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if s == nil {
					return domain.ErrUnknownSku
				}
				ref = entity.SkuRef{Sku: entity.ByID(s.ID)}
			}
			d, err := deps.Skus.Show(cmd.Context(), ref)
			if err != nil {
				return err
			}
			p := out(cmd)
			if !p.json {
				p.success("%s  %s", d.Sku, d.Description)
				if d.UPC != "" {
					p.muted("UPC %s", d.UPC)
				}
				p.table([]string{"ATRIBUTO", "VALOR"}, attributeRows(d.Attributes))
				p.table([]string{"UBICACIÓN", "BODEGA", "CANTIDAD"}, stockRows(d.Locations, true))
				p.muted("total: %d", d.Total)
			}
			return p.value(d)
		},
	}
	show.Flags().BoolVar(&byUPC, "upc", false, "el argumento es un código de barras")
	cmd.AddCommand(show)

	cmd.AddCommand(&cobra.Command{
		Use:   "tag <sku> <clave=valor>",
		Short: "Agregar un atributo a un SKU",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := parsePair(args[1])
			if err != nil {
				return err
			}
			attrs, err := deps.Skus.AddAttribute(cmd.Context(), dto.SkuRef(args[0], entityFlag), pair)
			if err != nil {
				return err
			}
			p := out(cmd)
			p.table([]string{"ATRIBUTO", "VALOR"}, attributeRows(attrs))
			return p.value(attrs)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "untag <sku> <clave=valor>",
		Short: "Quitar un atributo de un SKU",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := parsePair(args[1])
			if err != nil {
				return err
			}
			attrs, err := deps.Skus.RemoveAttribute(cmd.Context(), dto.SkuRef(args[0], entityFlag), pair)
			if err != nil {
				return err
			}
			p := out(cmd)
			p.table([]string{"ATRIBUTO", "VALOR"}, attributeRows(attrs))
			return p.value(attrs)
		},
	})

	var force bool
	del := &cobra.Command{
		Use:   "delete <sku>",
		Short: "Eliminar un SKU (--force borra también su stock)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Skus.Delete(cmd.Context(), dto.SkuRef(args[0], entityFlag), force); err != nil {
				return err
			}
			out(cmd).success("SKU %s eliminado", args[0])
			return nil
		},
	}
	del.Flags().BoolVar(&force, "force", false, "eliminar aunque tenga existencias")
	cmd.AddCommand(del)
	return cmd
}

// ── container ─────────────────────────────────────────────────────────────────

func newContainerCommand(deps Deps, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "container", Short: "Tipos de empaque (árbol padre/hijo)"}

	var parent int64
	var description string
	create := &cobra.Command{
		Use:   "create <nombre>",
		Short: "Crear un empaque; sin --parent queda como raíz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := dto.CreateContainerRequest{Name: args[0], Description: description}
			if cmd.Flags().Changed("parent") {
				in.ParentID = &parent
			}
			c, err := deps.Containers.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("empaque %q creado (id %d, nivel %d)", c.Name, c.ID, c.Depth)
			return p.value(c)
		},
	}
	create.Flags().Int64Var(&parent, "parent", 0, "id del empaque padre")
	create.Flags().StringVarP(&description, "description", "d", "", "descripción")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Listar empaques",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := deps.Containers.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, c := range list {
				name := strings.Repeat("  ", c.Depth) + c.Name
				rows = append(rows, []string{itoa(c.ID), name, itoa(c.ParentID), c.Description})
			}
			p := out(cmd)
			p.table([]string{"ID", "EMPAQUE", "PADRE", "DESCRIPCIÓN"}, rows)
			return p.value(list)
		},
	})

	var to int64
	move := &cobra.Command{
		Use:   "move <id>",
		Short: "Mover un empaque bajo otro padre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseQuantity("id", args[0])
			if err != nil {
				return err
			}
			c, err := deps.Containers.Move(cmd.Context(), id, dto.MoveContainerRequest{ParentID: to})
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("empaque %q ahora cuelga de %d", c.Name, c.ParentID)
			return p.value(c)
		},
	}
	move.Flags().Int64Var(&to, "parent", 0, "id del nuevo padre")
	_ = move.MarkFlagRequired("parent")
	cmd.AddCommand(move)
	return cmd
}
