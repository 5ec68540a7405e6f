package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	actx "go.hackfix.me/purr/app/context"
	aerrors "go.hackfix.me/purr/app/errors"
	"go.hackfix.me/purr/effect"
	"go.hackfix.me/purr/models"
	"go.hackfix.me/purr/service"
	"go.hackfix.me/purr/web/client"
)

// Cat manages the stored cats.
type Cat struct {
	Add struct {
		Name string `arg:"" help:"Cat name."`
	} `kong:"cmd,help='Add a new cat.'"`
	Get struct {
		ID string `arg:"" help:"Cat ID."`
	} `kong:"cmd,help='Show a cat.'"`
	Remove struct {
		ID string `arg:"" help:"Cat ID."`
	} `kong:"cmd,help='Remove a cat.',aliases='rm'"`
	List struct {
		Name  string `help:"Only list cats whose name contains this text, ignoring case."`
		Limit int    `help:"Maximum number of cats to list. 0 lists all of them."`
	} `kong:"cmd,help='List cats.',aliases='ls'"`

	Remote string `help:"Address of a purr server to manage cats on, instead of the local store."`
}

// Run the cat command.
func (c *Cat) Run(kctx *kong.Context, appCtx *actx.Context) error {
	store := appCtx.Store
	if c.Remote != "" {
		var err error
		if store, err = client.New(c.Remote, appCtx.Logger); err != nil {
			return aerrors.NewRuntimeError("failed creating web client", err, "")
		}
	}
	cats := service.NewCats(store)

	switch cmd := kctx.Selected().Name; cmd {
	case "add":
		cat, err := cats.Create(c.Add.Name).Run(appCtx.Ctx)
		if err != nil {
			return aerrors.NewRuntimeError("failed adding cat", err, "", "name", c.Add.Name)
		}
		appCtx.Logger.Debug("added cat", "id", cat.ID, "name", cat.Name)
		if _, err = fmt.Fprintln(appCtx.Stdout, cat.ID); err != nil {
			return aerrors.NewRuntimeError("failed writing to stdout", err, "")
		}
	case "get":
		cat, err := cats.Get(c.Get.ID).Run(appCtx.Ctx)
		if err != nil {
			return lookupError("failed getting cat", c.Get.ID, err)
		}
		if err = renderCats(appCtx.Stdout, []*models.Cat{cat}); err != nil {
			return aerrors.NewRuntimeError("failed rendering cat", err, "")
		}
	case "remove":
		if _, err := cats.Delete(c.Remove.ID).Run(appCtx.Ctx); err != nil {
			return lookupError("failed removing cat", c.Remove.ID, err)
		}
		appCtx.Logger.Info("removed cat", "id", c.Remove.ID)
	case "list":
		filter := models.CatFilter{Name: c.List.Name, Limit: c.List.Limit}
		if filter.Limit < 0 {
			return aerrors.NewRuntimeError("invalid limit", nil, "the limit must be 0 or greater")
		}
		list, err := cats.List(appCtx.Ctx, filter)
		if err != nil {
			return aerrors.NewRuntimeError("failed listing cats", err, "")
		}
		if len(list) == 0 {
			return nil
		}
		if err = renderCats(appCtx.Stdout, list); err != nil {
			return aerrors.NewRuntimeError("failed rendering cats", err, "")
		}
	default:
		return fmt.Errorf("unknown cat command: %s", cmd)
	}

	return nil
}

func lookupError(msg, id string, err error) error {
	if errors.Is(err, effect.ErrNoSuchElement) {
		return aerrors.NewRuntimeError(fmt.Sprintf("cat with ID '%s' doesn't exist", id), nil,
			"list the existing cats with 'purr cat ls'")
	}
	return aerrors.NewRuntimeError(msg, err, "", "id", id)
}
