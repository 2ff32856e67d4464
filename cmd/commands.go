package cmd

func init() {
	rootCmd.AddCommand(
		NewAssignCommand(),
		NewListCommand(),
		NewSummaryCommand(),
		NewCostCentersCommand(),
		NewConfigureCommand(),
		NewVersionCommand(),
	)
}
