package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchmarny/churn/pkg/config"
	"github.com/mchmarny/churn/pkg/customer"
	"github.com/mchmarny/churn/pkg/model"
	"github.com/mchmarny/churn/pkg/report"
	urfave "github.com/urfave/cli/v3"
)

const (
	configFlagName   = "config"
	modelFlagName    = "model"
	formatFlagName   = "format"
	strictFlagName   = "strict"
	debugFlagName    = "debug"
	logLevelFlagName = "log-level"

	customerIDFlagName       = "customerID"
	genderFlagName           = "gender"
	seniorCitizenFlagName    = "senior_citizen"
	partnerFlagName          = "partner"
	dependentsFlagName       = "dependents"
	tenureFlagName           = "tenure"
	phoneServiceFlagName     = "phone_service"
	multipleLinesFlagName    = "multiple_lines"
	internetServiceFlagName  = "internet_service"
	onlineSecurityFlagName   = "online_security"
	onlineBackupFlagName     = "online_backup"
	deviceProtectionFlagName = "device_protection"
	techSupportFlagName      = "tech_support"
	streamingTVFlagName      = "streaming_tv"
	streamingMoviesFlagName  = "streaming_movies"
	contractFlagName         = "contract"
	paperlessBillingFlagName = "paperless_billing"
	paymentMethodFlagName    = "payment_method"
	monthlyChargesFlagName   = "monthly_charges"
	totalChargesFlagName     = "total_charges"

	customerCategory = "Customer"
)

// Flags are built per command: urfave flags keep parse state.
func appFlags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.StringFlag{
			Name:      configFlagName,
			Usage:     "Path to a YAML config file (optional)",
			TakesFile: true,
		},
		&urfave.StringFlag{
			Name:      modelFlagName,
			Usage:     "Path to the LightGBM model file",
			Value:     config.DefaultModelPath,
			TakesFile: true,
		},
		&urfave.StringFlag{
			Name:  formatFlagName,
			Usage: fmt.Sprintf("Output format [%s, %s, %s]", config.FormatText, config.FormatJSON, config.FormatYAML),
			Value: config.FormatText,
		},
		&urfave.BoolFlag{
			Name:  strictFlagName,
			Usage: "Fail on categorical values the model was not trained on",
		},
		&urfave.BoolFlag{
			Name:  debugFlagName,
			Usage: "Prints verbose logs (optional, default: false)",
		},
		&urfave.StringFlag{
			Name:  logLevelFlagName,
			Usage: "Log level [debug, info, warn, error]",
			Value: "info",
		},
	}
}

func recordFlags() []urfave.Flag {
	return []urfave.Flag{
		stringFlag(customerIDFlagName, "Customer ID", "customer-id"),
		stringFlag(genderFlagName, "Gender"),
		intFlag(seniorCitizenFlagName, "Senior Citizen (0/1)"),
		stringFlag(partnerFlagName, "Partner"),
		stringFlag(dependentsFlagName, "Dependents"),
		intFlag(tenureFlagName, "Tenure (months)"),
		stringFlag(phoneServiceFlagName, "Phone Service"),
		stringFlag(multipleLinesFlagName, "Multiple Lines"),
		stringFlag(internetServiceFlagName, "Internet Service"),
		stringFlag(onlineSecurityFlagName, "Online Security"),
		stringFlag(onlineBackupFlagName, "Online Backup"),
		stringFlag(deviceProtectionFlagName, "Device Protection"),
		stringFlag(techSupportFlagName, "Tech Support"),
		stringFlag(streamingTVFlagName, "Streaming TV"),
		stringFlag(streamingMoviesFlagName, "Streaming Movies"),
		stringFlag(contractFlagName, "Contract"),
		stringFlag(paperlessBillingFlagName, "Paperless Billing"),
		stringFlag(paymentMethodFlagName, "Payment Method"),
		floatFlag(monthlyChargesFlagName, "Monthly Charges"),
		floatFlag(totalChargesFlagName, "Total Charges"),
	}
}

func stringFlag(name, usage string, aliases ...string) *urfave.StringFlag {
	return &urfave.StringFlag{
		Name:     name,
		Aliases:  kebabAliases(name, aliases),
		Usage:    usage,
		Category: customerCategory,
		Required: true,
	}
}

func intFlag(name, usage string) *urfave.IntFlag {
	return &urfave.IntFlag{
		Name:     name,
		Aliases:  kebabAliases(name, nil),
		Usage:    usage,
		Category: customerCategory,
		Required: true,
		Config:   urfave.IntegerConfig{Base: 10},
	}
}

func floatFlag(name, usage string) *urfave.FloatFlag {
	return &urfave.FloatFlag{
		Name:     name,
		Aliases:  kebabAliases(name, nil),
		Usage:    usage,
		Category: customerCategory,
		Required: true,
	}
}

func kebabAliases(name string, aliases []string) []string {
	if k := strings.ReplaceAll(name, "_", "-"); k != name {
		aliases = append(aliases, k)
	}
	return aliases
}

func recordFromFlags(cmd *urfave.Command) *customer.Record {
	return &customer.Record{
		CustomerID:       cmd.String(customerIDFlagName),
		Gender:           cmd.String(genderFlagName),
		SeniorCitizen:    cmd.Int(seniorCitizenFlagName),
		Partner:          cmd.String(partnerFlagName),
		Dependents:       cmd.String(dependentsFlagName),
		Tenure:           cmd.Int(tenureFlagName),
		PhoneService:     cmd.String(phoneServiceFlagName),
		MultipleLines:    cmd.String(multipleLinesFlagName),
		InternetService:  cmd.String(internetServiceFlagName),
		OnlineSecurity:   cmd.String(onlineSecurityFlagName),
		OnlineBackup:     cmd.String(onlineBackupFlagName),
		DeviceProtection: cmd.String(deviceProtectionFlagName),
		TechSupport:      cmd.String(techSupportFlagName),
		StreamingTV:      cmd.String(streamingTVFlagName),
		StreamingMovies:  cmd.String(streamingMoviesFlagName),
		Contract:         cmd.String(contractFlagName),
		PaperlessBilling: cmd.String(paperlessBillingFlagName),
		PaymentMethod:    cmd.String(paymentMethodFlagName),
		MonthlyCharges:   cmd.Float(monthlyChargesFlagName),
		TotalCharges:     cmd.Float(totalChargesFlagName),
	}
}

func cmdPredict(_ context.Context, cmd *urfave.Command, load Loader) error {
	cfg := getConfig(cmd)
	r := recordFromFlags(cmd)

	clf, err := load(cfg.ModelPath, cfg.StrictCategories)
	if err != nil {
		if !errors.Is(err, model.ErrLoad) {
			err = &model.LoadError{Path: cfg.ModelPath, Err: err}
		}
		return err
	}

	p, err := clf.PredictProba(r)
	if err != nil {
		if !errors.Is(err, model.ErrPrediction) {
			err = &model.PredictionError{Err: err}
		}
		return err
	}

	slog.Debug("churn predicted", "customer", r.CustomerID, "probability", p)

	res := report.New(r, p)
	w := cmd.Root().Writer

	if cfg.Format == config.FormatText {
		_, err := fmt.Fprintln(w, res.Line())
		return err
	}

	if err := encode(w, cfg.Format, res); err != nil {
		return fmt.Errorf("error encoding result: %+v: %w", res, err)
	}
	return nil
}
