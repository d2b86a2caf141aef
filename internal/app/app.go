package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avstrong/orderform/internal/catalog"
	"github.com/avstrong/orderform/internal/config"
	"github.com/avstrong/orderform/internal/form"
	"github.com/avstrong/orderform/internal/idgen/uuidgen"
	"github.com/avstrong/orderform/internal/logger"
	"github.com/avstrong/orderform/internal/nights"
	"github.com/avstrong/orderform/internal/order"
	"github.com/avstrong/orderform/internal/submission"
	"github.com/avstrong/orderform/internal/transport/formpost"
	"github.com/avstrong/orderform/internal/transport/web"
)

func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.New(catalog.Default())
	}

	return catalog.Load(path)
}

// NewForm wires the session: engine, projector, payload builder, transport and controller.
func NewForm(l *logger.Logger, c *catalog.Catalog, conf *config.Config) (*form.Form, error) {
	client, err := formpost.New(formpost.Conf{
		L:       l.With("formpost"),
		BaseURL: conf.FormBaseURL,
		Action:  conf.FormAction,
		Client:  nil,
	})
	if err != nil {
		return nil, fmt.Errorf("init form transport: %w", err)
	}

	engine := nights.New(c)
	builder := order.NewBuilder(engine, c.Currency(), uuidgen.New())
	controller := submission.New(l.With("submission"), builder, client)

	f := form.New(l.With("form"), c, order.NewProjector(engine, c.Currency()), controller)

	f.Subscribe(func(s order.Summary) {
		if s.Empty {
			l.LogDebugf("Summary: nothing selected")

			return
		}

		l.LogDebugf("Summary: %d line(s), total %.2f %s, needs dates: %v", len(s.Lines), s.Total, s.Currency, s.NeedsDates)
	})

	return f, nil
}

func Run(l *logger.Logger, conf *config.Config) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	l = l.WithDebug(conf.Debug)

	c, err := LoadCatalog(conf.CatalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	l.LogInfo("Catalog loaded with %d options, included window %s..%s",
		len(c.Options()),
		c.IncludedWindow().From.Format(catalog.DateLayout),
		c.IncludedWindow().To.Format(catalog.DateLayout),
	)

	orderForm, err := NewForm(l, c, conf)
	if err != nil {
		return err
	}

	webConf := web.Conf{
		L:                 l.With("web"),
		ServerLogger:      log.Default(),
		Host:              conf.Host,
		Port:              conf.Port,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
		Inbox:             true,
	}

	srv, err := web.New(ctx, webConf, orderForm)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Order form is running on %v:%v, submitting to %v%v...", webConf.Host, webConf.Port, conf.FormBaseURL, conf.FormAction)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
