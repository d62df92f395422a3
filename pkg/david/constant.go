package david

// DefaultEndpoint is DAVID's SOAP 1.1 endpoint.
const DefaultEndpoint = "https://davidbioinformatics.nih.gov/webservice/services/DAVIDWebService.DAVIDWebServiceHttpSoap11Endpoint/"

const (
	idTypeEntrez = "ENTREZ_GENE_ID"
	listTypeGene = 0 // 0: gene list, 1: background
)

// Fixed clustering parameters for getTermClusterReport, in call order:
// overlap, initial group membership, final group membership, linkage,
// kappa similarity threshold.
const (
	clusterOverlap     = 3
	clusterInitialSeed = 3
	clusterFinalSeed   = 3
	clusterLinkage     = 0.5
	clusterKappa       = 50
)
