package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

// parseQuantity convierte un argumento numérico; un texto inválido es un error de validación.
func parseQuantity(field, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(field, "debe ser un número entero")
	}
	return n, nil
}

// ── entity ────────────────────────────────────────────────────────────────────

func newEntityCommand(deps Deps, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "entity", Short: "Administrar entidades (dueñas de bodegas y SKUs)"}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <nombre>",
		Short: "Crear una entidad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := deps.Entities.Create(cmd.Context(), dto.CreateEntityRequest{Name: args[0]})
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("entidad %q creada (id %d)", e.Name, e.ID)
			return p.value(e)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Listar entidades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := deps.Entities.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, e := range list {
				rows = append(rows, []string{itoa(e.ID), e.Name})
			}
			p := out(cmd)
			p.table([]string{"ID", "ENTIDAD"}, rows)
			return p.value(list)
		},
	})

	var force bool
	del := &cobra.Command{
		Use:   "delete <entidad>",
		Short: "Eliminar una entidad (--force borra bodegas y SKUs sin stock)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Entities.Delete(cmd.Context(), entity.ParseIdentifier(args[0]), force); err != nil {
				return err
			}
			out(cmd).success("entidad %s eliminada", args[0])
			return nil
		},
	}
	del.Flags().BoolVar(&force, "force", false, "eliminar también bodegas, ubicaciones y SKUs (solo sin stock)")
	cmd.AddCommand(del)
	return cmd
}

// ── warehouse ─────────────────────────────────────────────────────────────────

func warehouseRows(list []dto.WarehouseResponse) [][]string {
	rows := make([][]string, 0, len(list))
	for _, w := range list {
		mark := ""
		if w.Active {
			mark = "*"
		}
		rows = append(rows, []string{mark, itoa(w.ID), w.Name, w.EntityName})
	}
	return rows
}

func newWarehouseCommand(deps Deps, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "warehouse", Short: "Administrar bodegas y la bodega activa"}
	var entityFlag string
	cmd.PersistentFlags().StringVarP(&entityFlag, "entity", "e", "", "entidad dueña (id o nombre)")

	cmd.AddCommand(&cobra.Command{
		Use:   "create <nombre>",
		Short: "Crear una bodega bajo --entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := deps.Warehouses.Create(cmd.Context(), dto.CreateWarehouseRequest{Name: args[0], Entity: entityFlag})
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("bodega %q creada en %q (id %d)", w.Name, w.EntityName, w.ID)
			return p.value(w)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Listar bodegas (la activa se marca con *)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := deps.Warehouses.List(cmd.Context(), entity.ParseOptionalIdentifier(entityFlag))
			if err != nil {
				return err
			}
			p := out(cmd)
			p.table([]string{"", "ID", "BODEGA", "ENTIDAD"}, warehouseRows(list))
			return p.value(list)
		},
	})

	var newName, newEntity string
	update := &cobra.Command{
		Use:   "update <bodega>",
		Short: "Renombrar una bodega o pasarla a otra entidad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in dto.UpdateWarehouseRequest
			if cmd.Flags().Changed("name") {
				in.Name = &newName
			}
			if cmd.Flags().Changed("to-entity") {
				in.Entity = &newEntity
			}
			w, err := deps.Warehouses.Update(cmd.Context(), dto.WarehouseRef(args[0], entityFlag), in)
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("bodega %d ahora es %q en %q", w.ID, w.Name, w.EntityName)
			return p.value(w)
		},
	}
	update.Flags().StringVar(&newName, "name", "", "nuevo nombre")
	update.Flags().StringVar(&newEntity, "to-entity", "", "nueva entidad dueña")
	cmd.AddCommand(update)

	var force bool
	del := &cobra.Command{
		Use:   "delete <bodega>",
		Short: "Eliminar una bodega (--force borra sus ubicaciones vacías)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Warehouses.Delete(cmd.Context(), dto.WarehouseRef(args[0], entityFlag), force); err != nil {
				return err
			}
			out(cmd).success("bodega %s eliminada", args[0])
			return nil
		},
	}
	del.Flags().BoolVar(&force, "force", false, "eliminar también sus ubicaciones (solo sin stock)")
	cmd.AddCommand(del)

	cmd.AddCommand(&cobra.Command{
		Use:   "activate <bodega>",
		Short: "Dejar una bodega como activa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := deps.Warehouses.Activate(cmd.Context(), dto.WarehouseRef(args[0], entityFlag))
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("bodega activa: %q (%s)", w.Name, w.EntityName)
			return p.value(w)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate",
		Short: "Olvidar la bodega activa",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := deps.Warehouses.Deactivate(cmd.Context()); err != nil {
				return err
			}
			out(cmd).success("sin bodega activa")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "active",
		Short: "Mostrar la bodega activa",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := deps.Warehouses.Active(cmd.Context())
			if err != nil {
				return err
			}
			p := out(cmd)
			if w == nil {
				p.muted("no hay bodega activa")
				return p.value(nil)
			}
			p.table([]string{"", "ID", "BODEGA", "ENTIDAD"}, warehouseRows([]dto.WarehouseResponse{*w}))
			return p.value(w)
		},
	})
	return cmd
}

// ── invloc ────────────────────────────────────────────────────────────────────

func locationRows(list []dto.LocationResponse) [][]string {
	rows := make([][]string, 0, len(list))
	for _, l := range list {
		rows = append(rows, []string{itoa(l.ID), l.Label, l.WarehouseName, l.EntityName, itoa(l.Total)})
	}
	return rows
}

func newLocationCommand(deps Deps, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "invloc", Short: "Administrar ubicaciones de inventario"}
	var warehouseFlag, entityFlag string
	cmd.PersistentFlags().StringVarP(&warehouseFlag, "warehouse", "w", "", "bodega (id o nombre); por defecto la activa")
	cmd.PersistentFlags().StringVarP(&entityFlag, "entity", "e", "", "entidad de la bodega (id o nombre)")
	ref := func(label string) entity.LocationRef {
		return dto.LocationRef(label, warehouseFlag, entityFlag)
	}
	headers := []string{"ID", "UBICACIÓN", "BODEGA", "ENTIDAD", "TOTAL"}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <etiqueta>",
		Short: "Crear una ubicación en --warehouse o en la bodega activa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := deps.Locations.Create(cmd.Context(), dto.CreateLocationRequest{
				Label: args[0], Warehouse: warehouseFlag, Entity: entityFlag,
			})
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("ubicación %q creada en %q (id %d)", l.Label, l.WarehouseName, l.ID)
			return p.value(l)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Listar ubicaciones con su total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := deps.Locations.List(cmd.Context(), dto.OptionalWarehouseRef(warehouseFlag, entityFlag))
			if err != nil {
				return err
			}
			p := out(cmd)
			p.table(headers, locationRows(list))
			return p.value(list)
		},
	})

	var newLabel, toWarehouse, toEntity string
	update := &cobra.Command{
		Use:   "update <ubicación>",
		Short: "Renombrar una ubicación o moverla a otra bodega (con su stock)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in dto.UpdateLocationRequest
			if cmd.Flags().Changed("label") {
				in.Label = &newLabel
			}
			if cmd.Flags().Changed("to-warehouse") {
				in.Warehouse = &toWarehouse
				if toEntity != "" {
					in.Entity = &toEntity
				}
			}
			l, err := deps.Locations.Update(cmd.Context(), ref(args[0]), in)
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("ubicación %d ahora es %q en %q", l.ID, l.Label, l.WarehouseName)
			return p.value(l)
		},
	}
	update.Flags().StringVar(&newLabel, "label", "", "nueva etiqueta")
	update.Flags().StringVar(&toWarehouse, "to-warehouse", "", "bodega destino")
	update.Flags().StringVar(&toEntity, "to-entity", "", "entidad de la bodega destino")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <ubicación>",
		Short: "Eliminar una ubicación vacía",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Locations.Delete(cmd.Context(), ref(args[0])); err != nil {
				return err
			}
			out(cmd).success("ubicación %s eliminada", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stock <ubicación>",
		Short: "Mostrar el contenido de una ubicación",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := deps.Ledger.LocationStock(cmd.Context(), ref(args[0]))
			if err != nil {
				return err
			}
			p := out(cmd)
			p.table([]string{"SKU", "UPC", "CANTIDAD"}, stockRows(s.Lines, false))
			p.muted("%s @ %s: %d unidades", s.Location.Label, s.Location.WarehouseName, s.Total)
			return p.value(s)
		},
	})
	return cmd
}

// stockRows arma filas de stock; withLocation agrega ubicación y bodega.
func stockRows(lines []dto.StockLineResponse, withLocation bool) [][]string {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		if withLocation {
			rows = append(rows, []string{l.Label, l.Warehouse, itoa(l.Quantity)})
			continue
		}
		rows = append(rows, []string{l.Sku, l.UPC, itoa(l.Quantity)})
	}
	return rows
}
