package metadata

const naicsTOML = `name = "naics"
description = "North American Industry Classification System"

[tables.naics_descriptions]
description = "Descriptions of every NAICS code"
schema = "naics"

[[tables.naics_descriptions.variables]]
name = "code"
description = "Six digit NAICS code"

[[tables.naics_descriptions.variables]]
name = "title"
description = "Industry title"

[[tables.naics_descriptions.variables]]
name = "description"
data_type = "text"
description = "Long description"

[tables.naics_descriptions.editions.2022-01-01]
raw_path = "data/naics/raw/naics_descriptions_2022.csv"
variables = ["code", "title", "description"]

[tables.naics_descriptions.editions.2017-01-01]
raw_path = "data/naics/raw/naics_descriptions_2017.csv"
variables = ["code", "title"]
`

const naicsYAML = `name: naics
description: North American Industry Classification System
tables:
  naics_descriptions:
    description: Descriptions of every NAICS code
    variables:
      - name: code
      - name: title
      - name: description
    editions:
      "2022-01-01":
        raw_path: data/naics/raw/naics_descriptions_2022.csv
        variables: [code, title, description]
`
