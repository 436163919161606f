// Package cli expone los casos de uso como comandos (cobra): honey entity|warehouse|invloc|invact|sku|container.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/honey-inventory/internal/application/inventory"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/pkg/config"
)

// Deps dependencias de los comandos. Migrate puede ser nil (almacén en memoria).
type Deps struct {
	Entities   *usecase.EntityUseCase
	Warehouses *usecase.WarehouseUseCase
	Locations  *usecase.LocationUseCase
	Skus       *usecase.SkuUseCase
	Containers *usecase.ContainerUseCase
	Ledger     *inventory.LedgerUseCase
	Migrate    func(ctx context.Context) ([]string, error)
	JWT        config.JWTConfig
}

// NewRootCommand arma el árbol de comandos.
func NewRootCommand(deps Deps) *cobra.Command {
	var jsonOutput bool
	root := &cobra.Command{
		Use:   "honey",
		Short: "honey - inventario por ubicación con escáner de códigos",
		Long: `honey lleva la cantidad de cada SKU en ubicaciones etiquetadas dentro de bodegas.

Las bodegas, ubicaciones y SKUs se indican por id o por nombre. Si un nombre se repite,
use --entity (o --warehouse) para desambiguar. Con una bodega activa
(honey warehouse activate) se puede omitir --warehouse.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "salida en formato JSON")

	out := func(cmd *cobra.Command) printer {
		return printer{out: cmd.OutOrStdout(), json: jsonOutput}
	}
	root.AddCommand(
		newEntityCommand(deps, out),
		newWarehouseCommand(deps, out),
		newLocationCommand(deps, out),
		newInventoryCommand(deps, out),
		newSkuCommand(deps, out),
		newContainerCommand(deps, out),
		newMigrateCommand(deps, out),
		newTokenCommand(deps, out),
	)
	return root
}

// Execute ejecuta la CLI; un error se imprime con estilo y termina con código 1.
func Execute(ctx context.Context, deps Deps, args []string, stderr io.Writer) int {
	root := NewRootCommand(deps)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, renderError(err))
		return 1
	}
	return 0
}

// printerFunc construye el printer de un comando según --json.
type printerFunc func(cmd *cobra.Command) printer
