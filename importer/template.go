package importer

// TemplateFilename is the suggested download name for the template.
const TemplateFilename = "transaction_template.csv"

// Template returns the documented reference CSV: the required header
// plus two example rows.
func Template() string {
	return "date,description,amount,supplier_name\n" +
		"2024-05-20,Purchase of 10 feed bags,150.75,FarmPro Feeds\n" +
		"2024-05-21,Payment for invoice #123,-100,Local Grains Co-op\n"
}
