package service

type exampleLead struct {
	company  string
	industry string
	size     string
	website  string
	notes    string
}

// exampleLeads holds one demo company per industry.
var exampleLeads = []exampleLead{
	{"TechVision Software", "Technology", "51-200 employees", "https://techvision.example.com", "Fast-growing SaaS company, recently raised Series B funding"},
	{"MedCare Solutions", "Healthcare", "201-500 employees", "https://medcare.example.com", "Healthcare tech company expanding into new markets"},
	{"Capital Trust Bank", "Finance", "500+ employees", "https://capitaltrust.example.com", "Regional bank with compliance-heavy HR needs"},
	{"PrecisionMfg Industries", "Manufacturing", "201-500 employees", "https://precisionmfg.example.com", "Manufacturing company with shift-based workforce challenges"},
	{"ShopSmart Retail", "Retail", "51-200 employees", "https://shopsmart.example.com", "E-commerce retailer with high seasonal hiring needs"},
	{"Apex Consulting Group", "Professional Services", "11-50 employees", "https://apexconsulting.example.com", "Growing consulting firm needs HR infrastructure"},
	{"BrightMinds Academy", "Education", "51-200 employees", "https://brightminds.example.com", "Private education institution, complex faculty management"},
	{"Summit Properties", "Real Estate", "11-50 employees", "https://summitproperties.example.com", "Real estate firm with distributed workforce"},
	{"Grand Hotels Group", "Hospitality", "201-500 employees", "https://grandhotels.example.com", "Hotel chain with high turnover, needs onboarding solutions"},
	{"BuildRight Construction", "Construction", "51-200 employees", "https://buildright.example.com", "Construction company with compliance and safety training needs"},
	{"FastTrack Logistics", "Transportation", "201-500 employees", "https://fasttrack.example.com", "Logistics company with driver management challenges"},
	{"Creative Studios Media", "Media & Entertainment", "11-50 employees", "https://creativestudios.example.com", "Media production company with freelancer management needs"},
	{"GreenGrow Farms", "Other", "51-200 employees", "https://greengrow.example.com", "Agricultural business with seasonal workforce"},
}
