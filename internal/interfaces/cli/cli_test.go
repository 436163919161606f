package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/inventory"
	"github.com/jhoicas/honey-inventory/internal/application/session"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/honey-inventory/internal/interfaces/cli"
	"github.com/jhoicas/honey-inventory/pkg/config"
	"github.com/jhoicas/honey-inventory/pkg/jwt"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testSecret = "cli-test-secret"

func newDeps() cli.Deps {
	store := memory.NewStore()
	log := logger.Nop()
	active := session.NewActiveWarehouse(memory.NewKV(), "test:active_warehouse", log)
	return cli.Deps{
		Entities:   usecase.NewEntityUseCase(store, log),
		Warehouses: usecase.NewWarehouseUseCase(store, active, log),
		Locations:  usecase.NewLocationUseCase(store, active, log),
		Skus:       usecase.NewSkuUseCase(store, log),
		Containers: usecase.NewContainerUseCase(store, log),
		Ledger:     inventory.NewLedgerUseCase(store, active, log),
		JWT:        config.JWTConfig{Secret: testSecret, Expiration: 5, Issuer: "honey-test"},
	}
}

// run ejecuta un comando con stdin opcional y devuelve lo escrito en stdout.
func run(t *testing.T, deps cli.Deps, stdin string, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand(deps)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, deps cli.Deps, args ...string) string {
	t.Helper()
	out, err := run(t, deps, "", args...)
	require.NoError(t, err, "honey %s", strings.Join(args, " "))
	return out
}

// seed crea Acme / Garage (activa) / HG-1 y el SKU A1-W-L con UPC 0001.
func seed(t *testing.T, deps cli.Deps) {
	t.Helper()
	mustRun(t, deps, "entity", "create", "Acme")
	mustRun(t, deps, "warehouse", "create", "Garage", "-e", "Acme")
	mustRun(t, deps, "warehouse", "activate", "Garage")
	mustRun(t, deps, "invloc", "create", "HG-1")
	mustRun(t, deps, "sku", "create", "A1-W-L", "-e", "Acme", "--upc", "0001")
}

func stockOf(t *testing.T, deps cli.Deps, label string) dto.LocationStockResponse {
	t.Helper()
	var s dto.LocationStockResponse
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "--json", "invloc", "stock", label)), &s))
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Escaneo
// ──────────────────────────────────────────────────────────────────────────────

func TestScan_BucleHastaExit(t *testing.T) {
	deps := newDeps()
	seed(t, deps)

	out, err := run(t, deps, "0001\n\n0001\nexit\n0001\n", "invact", "scan", "HG-1")
	require.NoError(t, err)
	assert.Contains(t, out, "A1-W-L @ HG-1: 1 → 2")

	assert.Equal(t, int64(2), stockOf(t, deps, "HG-1").Total)
}

func TestScan_CodigoDesconocidoTerminaLaSesion(t *testing.T) {
	deps := newDeps()
	seed(t, deps)

	_, err := run(t, deps, "0001\n9999\n0001\n", "invact", "scan", "HG-1")
	require.ErrorIs(t, err, domain.ErrUnknownSku)

	// el primer escaneo ya quedó confirmado; el tercero nunca se leyó
	assert.Equal(t, int64(1), stockOf(t, deps, "HG-1").Total)
}

func TestScan_UnSoloCodigoConCantidadYResta(t *testing.T) {
	deps := newDeps()
	seed(t, deps)

	mustRun(t, deps, "invact", "scan", "HG-1", "--upc", "0001", "--count", "5")
	out := mustRun(t, deps, "invact", "scan", "HG-1", "--upc", "0001", "-a", "decrease", "-c", "8")
	assert.Contains(t, out, "se pidieron 8 pero solo había 5")

	s := stockOf(t, deps, "HG-1")
	assert.Zero(t, s.Total)
	assert.Empty(t, s.Lines)
}

func TestScan_SinBodegaActivaNiFlag(t *testing.T) {
	deps := newDeps()
	seed(t, deps)
	mustRun(t, deps, "warehouse", "deactivate")

	_, err := run(t, deps, "", "invact", "scan", "HG-1", "--upc", "0001")
	assert.ErrorIs(t, err, domain.ErrNoActiveWarehouse)

	mustRun(t, deps, "invact", "scan", "HG-1", "--upc", "0001", "-w", "Garage", "-e", "Acme")
	mustRun(t, deps, "warehouse", "activate", "Garage")
	assert.Equal(t, int64(1), stockOf(t, deps, "HG-1").Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes y traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestSet_CantidadNoNumerica(t *testing.T) {
	deps := newDeps()
	seed(t, deps)

	_, err := run(t, deps, "", "invact", "set", "HG-1", "A1-W-L", "muchos")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	mustRun(t, deps, "invact", "set", "HG-1", "A1-W-L", "7")
	assert.Equal(t, int64(7), stockOf(t, deps, "HG-1").Total)
}

func TestTransferAll_CreaDestinoYBorraOrigen(t *testing.T) {
	deps := newDeps()
	seed(t, deps)
	mustRun(t, deps, "invact", "set", "HG-1", "A1-W-L", "4")

	out := mustRun(t, deps, "--json", "invact", "transfer-all", "HG-1", "HG-9", "--create", "--delete-source")
	var res dto.TransferResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.DestCreated)
	assert.True(t, res.SourceDeleted)
	assert.Equal(t, int64(4), res.Moved)

	assert.Equal(t, int64(4), stockOf(t, deps, "HG-9").Total)
	_, err := run(t, deps, "", "invloc", "stock", "HG-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_CantidadParcial(t *testing.T) {
	deps := newDeps()
	seed(t, deps)
	mustRun(t, deps, "invloc", "create", "HG-2")
	mustRun(t, deps, "invact", "set", "HG-1", "A1-W-L", "10")

	mustRun(t, deps, "invact", "transfer", "HG-1", "HG-2", "A1-W-L", "-q", "3")
	assert.Equal(t, int64(7), stockOf(t, deps, "HG-1").Total)
	assert.Equal(t, int64(3), stockOf(t, deps, "HG-2").Total)

	_, err := run(t, deps, "", "invact", "transfer", "HG-1", "HG-2", "A1-W-L", "-q", "50")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro y catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouse_ListaMarcaLaActiva(t *testing.T) {
	deps := newDeps()
	seed(t, deps)
	mustRun(t, deps, "warehouse", "create", "Shop", "-e", "Acme")

	var list []dto.WarehouseResponse
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "--json", "warehouse", "list")), &list))
	require.Len(t, list, 2)
	for _, w := range list {
		assert.Equal(t, w.Name == "Garage", w.Active, w.Name)
	}

	mustRun(t, deps, "warehouse", "deactivate")
	assert.Equal(t, "null\n", mustRun(t, deps, "--json", "warehouse", "active"))
}

func TestInvloc_EntidadAjenaALaBodegaActiva(t *testing.T) {
	deps := newDeps()
	seed(t, deps)
	mustRun(t, deps, "entity", "create", "Globex")

	_, err := run(t, deps, "", "invloc", "create", "X", "-e", "Globex")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var list []dto.LocationResponse
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "--json", "invloc", "list")), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "HG-1", list[0].Label)
}

func TestWarehouse_NombreAmbiguo(t *testing.T) {
	deps := newDeps()
	mustRun(t, deps, "entity", "create", "Acme")
	mustRun(t, deps, "entity", "create", "Umbrella")
	mustRun(t, deps, "warehouse", "create", "Garage", "-e", "Acme")
	mustRun(t, deps, "warehouse", "create", "Garage", "-e", "Umbrella")

	_, err := run(t, deps, "", "warehouse", "activate", "Garage")
	assert.ErrorIs(t, err, domain.ErrAmbiguousReference)

	out := mustRun(t, deps, "warehouse", "activate", "Garage", "-e", "Umbrella")
	assert.Contains(t, out, "Umbrella")
}

func TestSku_TagShowUntag(t *testing.T) {
	deps := newDeps()
	seed(t, deps)

	_, err := run(t, deps, "", "sku", "tag", "A1-W-L", "color")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	mustRun(t, deps, "sku", "tag", "A1-W-L", "color=white")
	mustRun(t, deps, "sku", "tag", "A1-W-L", "size=L")
	mustRun(t, deps, "invact", "set", "HG-1", "A1-W-L", "2")

	var d dto.SkuDetailResponse
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "--json", "sku", "show", "0001", "--upc")), &d))
	assert.Equal(t, "A1-W-L", d.Sku)
	assert.Len(t, d.Attributes, 2)
	assert.Equal(t, int64(2), d.Total)

	out := mustRun(t, deps, "sku", "untag", "A1-W-L", "color=white")
	assert.NotContains(t, out, "white")
	assert.Contains(t, out, "size")
}

func TestContainer_MoverCreaCiclo(t *testing.T) {
	deps := newDeps()
	var box, pallet dto.ContainerResponse
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "--json", "container", "create", "pallet")), &pallet))
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, deps, "--json", "container", "create", "box", "--parent", "1")), &box))
	assert.Equal(t, 1, box.Depth)

	_, err := run(t, deps, "", "container", "move", "1", "--parent", "2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, pallet.ID, box.ParentID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Administración
// ──────────────────────────────────────────────────────────────────────────────

func TestToken_EmiteRolValido(t *testing.T) {
	deps := newDeps()

	out := mustRun(t, deps, "token", "--user", "ana", "--role", jwt.RoleViewer)
	user, role, err := jwt.Parse(testSecret, strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ana", user)
	assert.Equal(t, jwt.RoleViewer, role)

	_, err = run(t, deps, "", "token", "--role", "root")
	assert.Error(t, err)
}

func TestMigrate_SinPostgres(t *testing.T) {
	_, err := run(t, newDeps(), "", "migrate")
	assert.Error(t, err)
}

func TestExecute_ErrorVaAStderr(t *testing.T) {
	var stderr bytes.Buffer
	code := cli.Execute(context.Background(), newDeps(), []string{"invloc", "delete", "HG-1", "-w", "Nada"}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), domain.ErrNotFound.Error())
}
