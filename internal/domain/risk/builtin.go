package risk

// builtinEntries is the curated table bundled with the service. Swap it out
// with knowledge_base.path in config.yaml.
var builtinEntries = map[string]Entry{
	"rs4977574": {
		Gene:         "CDKN2A/B",
		Variant:      "Heart Disease Risk",
		Significance: "Pathogenic (High Risk)",
		Description:  "Associated with increased risk of coronary artery disease.",
		Genotypes: map[string]string{
			"GG": "Low Risk",
			"GA": "Mod Risk",
			"AA": "High Risk",
		},
	},
	"rs2282679": {
		Gene:         "GC",
		Variant:      "Vitamin D Deficiency",
		Significance: "Risk Factor",
		Description:  "Lower conversion of Vitamin D. Supplementation recommended.",
		Genotypes: map[string]string{
			"GG": "High Risk",
			"GT": "Mod Risk",
			"TT": "Low Risk",
		},
	},
	"rs429358": {
		Gene:         "APOE",
		Variant:      "Alzheimer's Risk (e4)",
		Significance: "High Risk",
		Description:  "APOE e4 allele associated with increased risk of Alzheimer's.",
		Genotypes: map[string]string{
			"TT": "Low Risk",
			"CT": "Mod Risk",
			"CC": "High Risk",
		},
	},
	"rs7412": {
		Gene:         "APOE",
		Variant:      "Alzheimer's Risk (e2)",
		Significance: "Protective/Risk",
		Description:  "APOE e2 is generally protective, but e4 is risk.",
	},
	"rs762551": {
		Gene:         "CYP1A2",
		Variant:      "Caffeine Sensitivity",
		Significance: "Metabolic",
		Description:  "Slow metabolizer of caffeine.",
		Genotypes: map[string]string{
			"AA": "Fast",
			"AC": "Normal",
			"CC": "Slow",
		},
	},
	"rs1815739": {
		Gene:         "ACTN3",
		Variant:      "Muscle Performance",
		Significance: "Trait",
		Description:  "R577X variant. Associated with sprinter vs endurance athlete muscle type.",
		Genotypes: map[string]string{
			"CC": "Power",
			"CT": "Normal",
			"TT": "Endurance",
		},
	},
	"rs6025": {
		Gene:         "F5",
		Variant:      "Factor V Leiden",
		Significance: "Pathogenic",
		Description:  "Increased risk of blood clots (thrombophilia).",
	},
	"rs1801133": {
		Gene:         "MTHFR",
		Variant:      "MTHFR C677T",
		Significance: "Risk Factor",
		Description:  "Reduced folate metabolism. Homocysteine levels may be high.",
	},
	"rs1801131": {
		Gene:         "MTHFR",
		Variant:      "MTHFR A1298C",
		Significance: "Risk Factor",
		Description:  "Reduced folate metabolism.",
	},
	"rs1800497": {
		Gene:         "DRD2",
		Variant:      "Dopamine Receptor",
		Significance: "Trait",
		Description:  "Associated with reward deficiency syndrome.",
	},
	"rs4680": {
		Gene:         "COMT",
		Variant:      "Worrier vs Warrior",
		Significance: "Trait",
		Description:  "Val158Met. Affects dopamine breakdown in prefrontal cortex.",
	},
	"rs1799971": {
		Gene:         "OPRM1",
		Variant:      "Opioid Sensitivity",
		Significance: "Pharmacogenomic",
		Description:  "Altered response to opioids and alcohol.",
	},
	"rs3934834": {
		Gene:         "BRCA1",
		Variant:      "Breast Cancer Risk",
		Significance: "Pathogenic",
		Description:  "Known pathogenic variant for breast/ovarian cancer.",
	},
	"rs80357906": {
		Gene:         "BRCA1",
		Variant:      "Breast Cancer Risk",
		Significance: "Pathogenic",
		Description:  "Pathogenic variant.",
	},
}

// Builtin returns the bundled knowledge base.
func Builtin() *KnowledgeBase {
	kb, err := New(builtinEntries)
	if err != nil {
		// bundled data is fixed; failing here is a build defect
		panic(err)
	}
	return kb
}
