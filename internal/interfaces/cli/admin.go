package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jhoicas/honey-inventory/pkg/jwt"
)

func newMigrateCommand(deps Deps, out printerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplicar las migraciones pendientes de PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Migrate == nil {
				return errors.New("migrate requiere STORE_DRIVER=postgres")
			}
			applied, err := deps.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			p := out(cmd)
			if len(applied) == 0 {
				p.muted("esquema al día")
			}
			for _, name := range applied {
				p.success("%s", name)
			}
			return p.value(applied)
		},
	}
}

func newTokenCommand(deps Deps, out printerFunc) *cobra.Command {
	var user, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emitir un JWT para la API HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch role {
			case jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleViewer:
			default:
				return errors.New("rol inválido: use admin, operator o viewer")
			}
			tok, err := jwt.Generate(deps.JWT.Secret, user, role, deps.JWT.Issuer, deps.JWT.Expiration)
			if err != nil {
				return err
			}
			p := out(cmd)
			if p.json {
				return p.value(map[string]string{"token": tok, "role": role})
			}
			_, err = cmd.OutOrStdout().Write([]byte(tok + "\n"))
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", "cli", "sujeto del token")
	cmd.Flags().StringVar(&role, "role", jwt.RoleOperator, "admin, operator o viewer")
	return cmd
}
