package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
)

// exitCode termina el bucle de escaneo interactivo.
const exitCode = "exit"

func newInventoryCommand(deps Deps, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "invact", Short: "Movimientos de inventario: escaneo, ajuste y traslados"}

	cmd.AddCommand(newScanCommand(deps, out), newSetCommand(deps, out), newTransferCommand(deps, out), newTransferAllCommand(deps, out))
	return cmd
}

func newScanCommand(deps Deps, out printerFunc) *cobra.Command {
	var (
		warehouse, entityRaw, action, upc string
		count                             int64
	)
	cmd := &cobra.Command{
		Use:   "scan <ubicación>",
		Short: "Escanear códigos en una ubicación (sin --upc lee códigos hasta 'exit')",
		Long: `Suma o resta unidades en la ubicación por cada código escaneado.

Sin --upc se leen códigos de la entrada estándar, uno por línea, hasta 'exit' o fin de
archivo. Cada código se confirma por separado. Un código desconocido termina la sesión.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := out(cmd)
			req := dto.ScanRequest{
				LocationRefRequest: dto.LocationRefRequest{Location: args[0], Warehouse: warehouse, Entity: entityRaw},
				Action:             action,
			}
			if cmd.Flags().Changed("count") {
				req.Count = &count
			}
			scan := func(code string) error {
				req.UPC = code
				res, err := deps.Ledger.ScanAdjust(cmd.Context(), req)
				if err != nil {
					return err
				}
				if res.Warning != "" {
					p.warning("%s: %s", res.Sku, res.Warning)
				} else {
					p.success("%s @ %s: %d → %d", res.Sku, res.Label, res.Previous, res.Quantity)
				}
				return p.value(res)
			}
			if upc != "" {
				return scan(upc)
			}

			p.muted("escanee códigos (%s para terminar)", exitCode)
			lines := bufio.NewScanner(cmd.InOrStdin())
			for lines.Scan() {
				code := strings.TrimSpace(lines.Text())
				if code == "" {
					continue
				}
				if strings.EqualFold(code, exitCode) {
					break
				}
				if err := scan(code); err != nil {
					return err
				}
			}
			return lines.Err()
		},
	}
	cmd.Flags().StringVarP(&warehouse, "warehouse", "w", "", "bodega (por defecto la activa)")
	cmd.Flags().StringVarP(&entityRaw, "entity", "e", "", "entidad de la bodega")
	cmd.Flags().StringVarP(&action, "action", "a", dto.ActionIncrease, "increase o decrease")
	cmd.Flags().Int64VarP(&count, "count", "c", 1, "unidades por código escaneado")
	cmd.Flags().StringVar(&upc, "upc", "", "escanear un solo código y salir")
	return cmd
}

func newSetCommand(deps Deps, out printerFunc) *cobra.Command {
	var warehouse, entityRaw, skuEntity string
	cmd := &cobra.Command{
		Use:   "set <ubicación> <sku> <cantidad>",
		Short: "Fijar la cantidad exacta de un SKU en una ubicación (0 elimina la fila)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity("quantity", args[2])
			if err != nil {
				return err
			}
			res, err := deps.Ledger.SetQuantity(cmd.Context(), dto.SetQuantityRequest{
				LocationRefRequest: dto.LocationRefRequest{Location: args[0], Warehouse: warehouse, Entity: entityRaw},
				Sku:                args[1],
				SkuEntity:          skuEntity,
				Quantity:           &qty,
			})
			if err != nil {
				return err
			}
			p := out(cmd)
			p.success("%s @ %s: %d → %d", res.Sku, res.Label, res.Previous, res.Quantity)
			return p.value(res)
		},
	}
	cmd.Flags().StringVarP(&warehouse, "warehouse", "w", "", "bodega (por defecto la activa)")
	cmd.Flags().StringVarP(&entityRaw, "entity", "e", "", "entidad de la bodega")
	cmd.Flags().StringVar(&skuEntity, "sku-entity", "", "entidad del SKU si el código se repite")
	return cmd
}

// endpointFlags flags compartidos por los traslados.
type endpointFlags struct {
	srcWarehouse, srcEntity string
	dstWarehouse, dstEntity string
	create                  bool
}

func (f *endpointFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.srcWarehouse, "from-warehouse", "", "bodega del origen (por defecto la activa)")
	cmd.Flags().StringVar(&f.srcEntity, "from-entity", "", "entidad de la bodega de origen")
	cmd.Flags().StringVar(&f.dstWarehouse, "to-warehouse", "", "bodega del destino (por defecto la activa)")
	cmd.Flags().StringVar(&f.dstEntity, "to-entity", "", "entidad de la bodega de destino")
	cmd.Flags().BoolVar(&f.create, "create", false, "crear la ubicación destino si no existe")
}

func (f *endpointFlags) refs(src, dst string) (dto.LocationRefRequest, dto.LocationRefRequest) {
	return dto.LocationRefRequest{Location: src, Warehouse: f.srcWarehouse, Entity: f.srcEntity},
		dto.LocationRefRequest{Location: dst, Warehouse: f.dstWarehouse, Entity: f.dstEntity}
}

func newTransferCommand(deps Deps, out printerFunc) *cobra.Command {
	var (
		ep        endpointFlags
		skuEntity string
		quantity  int64
	)
	cmd := &cobra.Command{
		Use:   "transfer <origen> <destino> <sku>",
		Short: "Trasladar un SKU entre ubicaciones (sin --quantity mueve todo)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := ep.refs(args[0], args[1])
			req := dto.TransferRequest{
				Source: src, Dest: dst,
				Sku: args[2], SkuEntity: skuEntity,
				CreateIfMissing: ep.create,
			}
			if cmd.Flags().Changed("quantity") {
				req.Quantity = &quantity
			}
			res, err := deps.Ledger.Transfer(cmd.Context(), req)
			if err != nil {
				return err
			}
			printTransfer(out(cmd), res)
			return out(cmd).value(res)
		},
	}
	ep.bind(cmd)
	cmd.Flags().StringVar(&skuEntity, "sku-entity", "", "entidad del SKU si el código se repite")
	cmd.Flags().Int64VarP(&quantity, "quantity", "q", 0, "unidades a mover")
	return cmd
}

func newTransferAllCommand(deps Deps, out printerFunc) *cobra.Command {
	var (
		ep           endpointFlags
		deleteSource bool
	)
	cmd := &cobra.Command{
		Use:   "transfer-all <origen> <destino>",
		Short: "Vaciar una ubicación en otra (todo o nada)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := ep.refs(args[0], args[1])
			res, err := deps.Ledger.TransferAll(cmd.Context(), dto.TransferAllRequest{
				Source: src, Dest: dst,
				DeleteSource:    deleteSource,
				CreateIfMissing: ep.create,
			})
			if err != nil {
				return err
			}
			p := out(cmd)
			printTransfer(p, res)
			if res.SourceDeleted {
				p.muted("ubicación %s eliminada", res.SourceLabel)
			}
			return p.value(res)
		},
	}
	ep.bind(cmd)
	cmd.Flags().BoolVar(&deleteSource, "delete-source", false, "eliminar el origen al terminar")
	return cmd
}

func printTransfer(p printer, res *dto.TransferResponse) {
	if res.DestCreated {
		p.muted("ubicación %s creada", res.DestLabel)
	}
	rows := make([][]string, 0, len(res.Lines))
	for _, l := range res.Lines {
		rows = append(rows, []string{l.Sku, itoa(l.Moved)})
	}
	p.table([]string{"SKU", "MOVIDAS"}, rows)
	p.success("%d unidades de %s a %s", res.Moved, res.SourceLabel, res.DestLabel)
}
